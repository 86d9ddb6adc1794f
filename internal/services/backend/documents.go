package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Document is a stored record in a workspace collection. Data holds the
// caller-defined fields.
type Document struct {
	ID        string          `json:"id"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
	Data      json.RawMessage `json:"data"`
}

// DecodeData unmarshals the document's data fields into target.
func (d Document) DecodeData(target any) error {
	if len(d.Data) == 0 {
		return errors.New("document has no data")
	}
	return json.Unmarshal(d.Data, target)
}

type documentList struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
}

func (c *Client) collectionPath(collection string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", c.database, collection)
}

// CreateDocument stores data under the caller-supplied document id.
func (c *Client) CreateDocument(ctx context.Context, collection, id string, data any) (Document, error) {
	var doc Document
	if strings.TrimSpace(id) == "" {
		return doc, errors.New("backend create document: id required")
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return doc, fmt.Errorf("backend create document: encode data: %w", err)
	}
	payload := map[string]json.RawMessage{
		"documentId": json.RawMessage(fmt.Sprintf("%q", id)),
		"data":       encoded,
	}
	err = c.do(ctx, "create document", http.MethodPost, c.collectionPath(collection), payload, &doc)
	return doc, err
}

// GetDocument fetches a single document by id.
func (c *Client) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	var doc Document
	err := c.do(ctx, "get document", http.MethodGet, c.collectionPath(collection)+"/"+id, nil, &doc)
	return doc, err
}

// ListDocuments returns every document in the collection. Filtering happens
// client side.
func (c *Client) ListDocuments(ctx context.Context, collection string) ([]Document, error) {
	var list documentList
	if err := c.do(ctx, "list documents", http.MethodGet, c.collectionPath(collection), nil, &list); err != nil {
		return nil, err
	}
	return list.Documents, nil
}

// UpdateDocument applies a partial update to the document's data fields.
func (c *Client) UpdateDocument(ctx context.Context, collection, id string, data any) (Document, error) {
	var doc Document
	encoded, err := json.Marshal(data)
	if err != nil {
		return doc, fmt.Errorf("backend update document: encode data: %w", err)
	}
	payload := map[string]json.RawMessage{"data": encoded}
	err = c.do(ctx, "update document", http.MethodPatch, c.collectionPath(collection)+"/"+id, payload, &doc)
	return doc, err
}

// DeleteDocument removes a document by id.
func (c *Client) DeleteDocument(ctx context.Context, collection, id string) error {
	return c.do(ctx, "delete document", http.MethodDelete, c.collectionPath(collection)+"/"+id, nil, nil)
}
