package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestEmbedder(url string, dim int) Embedder {
	return NewHTTPEmbedder(EmbedderConfig{
		URL:           url,
		Model:         "nomic-embed-text",
		Dimension:     dim,
		MaxInputChars: 1000,
		Timeout:       time.Second,
	}, zerolog.Nop())
}

func TestEmbedReturnsProviderVector(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3, 0.4}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("path = %q, want /api/embed", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("model = %q", req.Model)
		}
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{want}})
	}))
	defer server.Close()

	embedder := newTestEmbedder(server.URL, 4)
	got := embedder.Embed(context.Background(), "some text")

	if len(got) != len(want) {
		t.Fatalf("dimension = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vector[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEmbedTruncatesInput(t *testing.T) {
	var receivedLen int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		receivedLen = len(req.Input)
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{make([]float32, 4)}})
	}))
	defer server.Close()

	embedder := newTestEmbedder(server.URL, 4)
	embedder.Embed(context.Background(), strings.Repeat("a", 5000))

	if receivedLen != 1000 {
		t.Errorf("provider received %d chars, want 1000", receivedLen)
	}
}

func TestEmbedZeroVectorOnProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	embedder := newTestEmbedder(server.URL, 4)
	got := embedder.Embed(context.Background(), "some text")

	assertZeroVector(t, got, 4)
}

func TestEmbedZeroVectorWhenProviderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	embedder := newTestEmbedder(server.URL, 4)
	got := embedder.Embed(context.Background(), "some text")

	assertZeroVector(t, got, 4)
}

func TestEmbedZeroVectorOnDimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{0.1, 0.2}}})
	}))
	defer server.Close()

	embedder := newTestEmbedder(server.URL, 4)
	got := embedder.Embed(context.Background(), "some text")

	assertZeroVector(t, got, 4)
}

func TestEmbedZeroVectorOnEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{})
	}))
	defer server.Close()

	embedder := newTestEmbedder(server.URL, 4)
	got := embedder.Embed(context.Background(), "some text")

	assertZeroVector(t, got, 4)
}

func assertZeroVector(t *testing.T, got []float32, dim int) {
	t.Helper()
	if len(got) != dim {
		t.Fatalf("dimension = %d, want %d", len(got), dim)
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("vector[%d] = %v, want 0", i, v)
		}
	}
}
