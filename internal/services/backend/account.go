package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// User describes a backend account.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"emailVerified"`
}

// Session carries the credentials returned by a successful login.
type Session struct {
	UserID string `json:"userId"`
	Secret string `json:"secret"`
	Email  string `json:"email,omitempty"`
}

// CreateAccount registers a new account with the backend.
func (c *Client) CreateAccount(ctx context.Context, userID, email, password, name string) (User, error) {
	var user User
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return user, errors.New("backend create account: email and password required")
	}
	payload := map[string]string{
		"userId":   userID,
		"email":    email,
		"password": password,
		"name":     strings.TrimSpace(name),
	}
	err := c.do(ctx, "create account", http.MethodPost, "/account", payload, &user)
	return user, err
}

// CreateSession logs in with email and password. The returned session secret
// authenticates subsequent requests and is also applied to this client.
func (c *Client) CreateSession(ctx context.Context, email, password string) (Session, error) {
	var session Session
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return session, errors.New("backend create session: email and password required")
	}
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, "create session", http.MethodPost, "/account/sessions/email", payload, &session); err != nil {
		return session, err
	}
	session.Email = email
	c.SetSession(session.Secret)
	return session, nil
}

// CurrentUser fetches the account attached to the active session.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, "current user", http.MethodGet, "/account", nil, &user)
	return user, err
}

// DeleteSession invalidates the active session on the backend.
func (c *Client) DeleteSession(ctx context.Context) error {
	if err := c.do(ctx, "delete session", http.MethodDelete, "/account/sessions/current", nil, nil); err != nil {
		return err
	}
	c.session = ""
	return nil
}

// ConfirmVerification completes email verification with the token pair from
// the verification link.
func (c *Client) ConfirmVerification(ctx context.Context, userID, secret string) error {
	userID = strings.TrimSpace(userID)
	secret = strings.TrimSpace(secret)
	if userID == "" || secret == "" {
		return errors.New("backend confirm verification: userId and secret required")
	}
	payload := map[string]string{"userId": userID, "secret": secret}
	return c.do(ctx, "confirm verification", http.MethodPut, "/account/verification", payload, nil)
}
