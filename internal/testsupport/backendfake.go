package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// FakeBackend is an in-memory stand-in for the workspace backend API, good
// enough for document CRUD and file storage flows in tests.
type FakeBackend struct {
	mu    sync.Mutex
	docs  map[string][]fakeDocument
	files map[string][]byte

	// FailDocumentCreate makes the next document create return HTTP 500.
	FailDocumentCreate bool
	// FailFileCreate makes the next file upload return HTTP 500.
	FailFileCreate bool
	// FailFileDelete makes the next file delete return HTTP 500.
	FailFileDelete bool
}

type fakeDocument struct {
	ID        string          `json:"id"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
	Data      json.RawMessage `json:"data"`
}

// NewFakeBackend constructs an empty fake backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		docs:  make(map[string][]fakeDocument),
		files: make(map[string][]byte),
	}
}

// StartFakeBackend constructs a fake backend and serves it on a test server
// that shuts down with the test.
func StartFakeBackend(t testing.TB) (*FakeBackend, *httptest.Server) {
	t.Helper()
	fake := NewFakeBackend()
	server := httptest.NewServer(fake.Handler())
	t.Cleanup(server.Close)
	return fake, server
}

// SeedDocument inserts a document directly into a collection.
func (f *FakeBackend) SeedDocument(collection, id string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	f.docs[collection] = append(f.docs[collection], fakeDocument{ID: id, CreatedAt: now, UpdatedAt: now, Data: raw})
}

// SeedFile inserts a stored file directly into the bucket.
func (f *FakeBackend) SeedFile(id string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[id] = content
}

// DocumentCount returns the number of documents in a collection.
func (f *FakeBackend) DocumentCount(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs[collection])
}

// Document returns a stored document's data by id.
func (f *FakeBackend) Document(collection, id string) (json.RawMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, doc := range f.docs[collection] {
		if doc.ID == id {
			return doc.Data, true
		}
	}
	return nil, false
}

// HasFile reports whether the bucket holds a file with the given id.
func (f *FakeBackend) HasFile(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[id]
	return ok
}

// FileCount returns the number of stored files.
func (f *FakeBackend) FileCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

// Handler returns the HTTP handler implementing the backend API surface.
func (f *FakeBackend) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case len(parts) >= 5 && parts[0] == "databases" && parts[2] == "collections" && parts[4] == "documents":
			f.handleDocuments(w, r, parts)
		case len(parts) >= 4 && parts[0] == "storage" && parts[1] == "buckets" && parts[3] == "files":
			f.handleFiles(w, r, parts)
		default:
			http.Error(w, `{"message":"unknown route"}`, http.StatusNotFound)
		}
	})
}

func (f *FakeBackend) handleDocuments(w http.ResponseWriter, r *http.Request, parts []string) {
	collection := parts[3]
	var id string
	if len(parts) > 5 {
		id = parts[5]
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && id == "":
		if f.FailDocumentCreate {
			f.FailDocumentCreate = false
			http.Error(w, `{"message":"document write failed"}`, http.StatusInternalServerError)
			return
		}
		var payload struct {
			DocumentID string          `json:"documentId"`
			Data       json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, `{"message":"bad payload"}`, http.StatusBadRequest)
			return
		}
		now := time.Now().UTC().Format(time.RFC3339Nano)
		doc := fakeDocument{ID: payload.DocumentID, CreatedAt: now, UpdatedAt: now, Data: payload.Data}
		f.docs[collection] = append(f.docs[collection], doc)
		writeJSON(w, doc)
	case r.Method == http.MethodGet && id == "":
		writeJSON(w, map[string]any{"total": len(f.docs[collection]), "documents": f.docs[collection]})
	case r.Method == http.MethodGet:
		for _, doc := range f.docs[collection] {
			if doc.ID == id {
				writeJSON(w, doc)
				return
			}
		}
		http.Error(w, `{"message":"document not found"}`, http.StatusNotFound)
	case r.Method == http.MethodPatch:
		var payload struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, `{"message":"bad payload"}`, http.StatusBadRequest)
			return
		}
		for i, doc := range f.docs[collection] {
			if doc.ID == id {
				merged := mergeJSON(doc.Data, payload.Data)
				f.docs[collection][i].Data = merged
				f.docs[collection][i].UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
				writeJSON(w, f.docs[collection][i])
				return
			}
		}
		http.Error(w, `{"message":"document not found"}`, http.StatusNotFound)
	case r.Method == http.MethodDelete:
		for i, doc := range f.docs[collection] {
			if doc.ID == id {
				f.docs[collection] = append(f.docs[collection][:i], f.docs[collection][i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		http.Error(w, `{"message":"document not found"}`, http.StatusNotFound)
	default:
		http.Error(w, `{"message":"unsupported"}`, http.StatusMethodNotAllowed)
	}
}

func (f *FakeBackend) handleFiles(w http.ResponseWriter, r *http.Request, parts []string) {
	var id string
	if len(parts) > 4 {
		id = parts[4]
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && id == "":
		if f.FailFileCreate {
			f.FailFileCreate = false
			http.Error(w, `{"message":"storage unavailable"}`, http.StatusInternalServerError)
			return
		}
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			http.Error(w, `{"message":"bad multipart"}`, http.StatusBadRequest)
			return
		}
		fileID := r.FormValue("fileId")
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"message":"missing file"}`, http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		f.files[fileID] = content
		writeJSON(w, map[string]any{"id": fileID, "name": header.Filename, "size": len(content)})
	case r.Method == http.MethodDelete && id != "":
		if f.FailFileDelete {
			f.FailFileDelete = false
			http.Error(w, `{"message":"storage unavailable"}`, http.StatusInternalServerError)
			return
		}
		if _, ok := f.files[id]; !ok {
			http.Error(w, `{"message":"file not found"}`, http.StatusNotFound)
			return
		}
		delete(f.files, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, `{"message":"unsupported"}`, http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}

func mergeJSON(base, patch json.RawMessage) json.RawMessage {
	var baseMap map[string]json.RawMessage
	if err := json.Unmarshal(base, &baseMap); err != nil {
		return patch
	}
	var patchMap map[string]json.RawMessage
	if err := json.Unmarshal(patch, &patchMap); err != nil {
		return base
	}
	for key, value := range patchMap {
		baseMap[key] = value
	}
	merged, err := json.Marshal(baseMap)
	if err != nil {
		return patch
	}
	return merged
}
