package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// StoredFile describes an object uploaded to the workspace bucket.
type StoredFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func (c *Client) bucketPath() string {
	return fmt.Sprintf("/storage/buckets/%s/files", c.bucket)
}

// CreateFile uploads content under the caller-supplied file id.
func (c *Client) CreateFile(ctx context.Context, id, filename string, content io.Reader) (StoredFile, error) {
	var stored StoredFile
	if strings.TrimSpace(id) == "" {
		return stored, errors.New("backend create file: id required")
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = id
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("fileId", id); err != nil {
		return stored, fmt.Errorf("backend create file: build form: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return stored, fmt.Errorf("backend create file: build form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return stored, fmt.Errorf("backend create file: read content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return stored, fmt.Errorf("backend create file: finalize form: %w", err)
	}

	endpoint, err := url.JoinPath(c.endpoint, c.bucketPath())
	if err != nil {
		return stored, fmt.Errorf("backend create file: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return stored, fmt.Errorf("backend create file: request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return stored, fmt.Errorf("backend create file: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return stored, fmt.Errorf("backend create file: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return stored, fmt.Errorf("backend create file: %s", errorDetail(resp.StatusCode, raw))
	}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return stored, fmt.Errorf("backend create file: decode response: %w", err)
	}
	return stored, nil
}

// FileViewURL returns the public view URL for a stored file. It does not
// contact the backend.
func (c *Client) FileViewURL(id string) string {
	return fmt.Sprintf("%s%s/%s/view?project=%s", c.endpoint, c.bucketPath(), id, url.QueryEscape(c.project))
}

// DeleteFile removes a stored file by id.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("backend delete file: id required")
	}
	return c.do(ctx, "delete file", http.MethodDelete, c.bucketPath()+"/"+id, nil, nil)
}
