package pathstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeServer is an in-memory /kv/{key} endpoint.
type fakeServer struct {
	mu    sync.Mutex
	nodes map[string]json.RawMessage
	auth  []string
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	fs := &fakeServer{nodes: make(map[string]json.RawMessage)}
	mux := http.NewServeMux()
	mux.HandleFunc("/kv/{key}", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		fs.auth = append(fs.auth, r.Header.Get("Authorization"))
		key := r.PathValue("key")
		switch r.Method {
		case http.MethodGet:
			v, ok := fs.nodes[key]
			if !ok {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(NodeResponse{Key: key, Value: v})
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			var req NodeRequest
			if err := json.Unmarshal(body, &req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			fs.nodes[key] = req.Value
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			if _, ok := fs.nodes[key]; !ok {
				http.NotFound(w, r)
				return
			}
			delete(fs.nodes, key)
			w.WriteHeader(http.StatusNoContent)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fs, srv
}

func TestClient_PutGetDelete(t *testing.T) {
	fs, srv := newFakeServer(t)
	c := NewClient(srv.URL+"/", "secret", 0)
	defer c.Close()
	ctx := context.Background()

	value := json.RawMessage(`{"sections":[]}`)
	if err := c.PutNode(ctx, "dash", NodeRequest{Value: value}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node, err := c.GetNode(ctx, "dash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node == nil {
		t.Fatal("expected node, got nil")
	}
	if string(node.Value) != string(value) {
		t.Errorf("expected value %s, got %s", value, node.Value)
	}

	if err := c.DeleteNode(ctx, "dash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	node, err = c.GetNode(ctx, "dash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node != nil {
		t.Errorf("expected nil after delete, got %+v", node)
	}

	for _, h := range fs.auth {
		if h != "Bearer secret" {
			t.Errorf("expected bearer auth header, got %q", h)
		}
	}
}

func TestClient_GetMissingReturnsNil(t *testing.T) {
	_, srv := newFakeServer(t)
	c := NewClient(srv.URL, "", 0)

	node, err := c.GetNode(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node != nil {
		t.Errorf("expected nil node, got %+v", node)
	}
}

func TestClient_DeleteMissingIsNotAnError(t *testing.T) {
	_, srv := newFakeServer(t)
	c := NewClient(srv.URL, "", 0)
	if err := c.DeleteNode(context.Background(), "missing"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "", 0)
	ctx := context.Background()

	if _, err := c.GetNode(ctx, "k"); err == nil {
		t.Error("expected error from GetNode on 500")
	}
	if err := c.PutNode(ctx, "k", NodeRequest{Value: json.RawMessage(`1`)}); err == nil {
		t.Error("expected error from PutNode on 500")
	}
	if err := c.DeleteNode(ctx, "k"); err == nil {
		t.Error("expected error from DeleteNode on 500")
	}
}

func TestClient_NoAuthHeaderWithoutKey(t *testing.T) {
	fs, srv := newFakeServer(t)
	c := NewClient(srv.URL, "", 0)
	c.GetNode(context.Background(), "x")
	if len(fs.auth) != 1 || fs.auth[0] != "" {
		t.Errorf("expected no Authorization header, got %v", fs.auth)
	}
}
