package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/models"
)

func TestIngestIsIdempotentByTitle(t *testing.T) {
	repo := &fakeSourceRepo{}
	embedder := &fakeEmbedder{dim: 4}
	svc := NewSourceService(repo, embedder, zerolog.Nop())

	batch := []models.SourceRecord{
		{Title: "Paper A", FullText: "full text a"},
		{Title: "Paper B", FullText: "full text b"},
	}

	resp, err := svc.Ingest(context.Background(), batch)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if resp.Inserted != 2 || resp.Skipped != 0 {
		t.Errorf("first run = %+v, want inserted=2 skipped=0", resp)
	}

	resp, err = svc.Ingest(context.Background(), batch)
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if resp.Inserted != 0 || resp.Skipped != 2 {
		t.Errorf("second run = %+v, want inserted=0 skipped=2", resp)
	}
	if len(repo.sources) != 2 {
		t.Errorf("stored sources = %d, want 2", len(repo.sources))
	}
}

func TestIngestRejectsMalformedRecordUpfront(t *testing.T) {
	repo := &fakeSourceRepo{}
	svc := NewSourceService(repo, &fakeEmbedder{dim: 4}, zerolog.Nop())

	batch := []models.SourceRecord{
		{Title: "Paper A", FullText: "full text a"},
		{Title: "", FullText: "orphaned text"},
	}

	_, err := svc.Ingest(context.Background(), batch)
	if err == nil {
		t.Fatal("expected error for record without title")
	}
	if !strings.Contains(err.Error(), "malformed ingestion record 1") {
		t.Errorf("err = %v, want malformed record index", err)
	}
	if len(repo.sources) != 0 {
		t.Error("malformed batch must insert nothing")
	}
}

func TestIngestAppliesDefaults(t *testing.T) {
	repo := &fakeSourceRepo{}
	svc := NewSourceService(repo, &fakeEmbedder{dim: 4}, zerolog.Nop())

	_, err := svc.Ingest(context.Background(), []models.SourceRecord{
		{Title: "Paper A", FullText: "full text a"},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	source := repo.sources[0]
	if source.Authors != "Unknown" {
		t.Errorf("authors = %q, want %q", source.Authors, "Unknown")
	}
	if source.SourceType != "paper" {
		t.Errorf("source type = %q, want %q", source.SourceType, "paper")
	}
	if len(source.Embedding) != 4 {
		t.Errorf("embedding dim = %d, want 4", len(source.Embedding))
	}
}

func TestSearchOrdersByDistance(t *testing.T) {
	repo := &fakeSourceRepo{
		sources: []models.AcademicSource{
			{ID: 1, Title: "Far Paper", Authors: "X", Embedding: []float32{0, 1, 0}},
			{ID: 2, Title: "Near Paper", Authors: "Y", Embedding: []float32{1, 0, 0}},
			{ID: 3, Title: "Middle Paper", Authors: "Z", Embedding: []float32{0.7, 0.3, 0}},
		},
	}
	embedder := &fakeEmbedder{vec: []float32{1, 0, 0}}
	svc := NewSourceService(repo, embedder, zerolog.Nop())

	results, err := svc.Search(context.Background(), "consensus protocols", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("result count = %d, want 2", len(results))
	}
	if results[0].Title != "Near Paper" {
		t.Errorf("first result = %q, want nearest", results[0].Title)
	}
	if results[1].Title != "Middle Paper" {
		t.Errorf("second result = %q, want second nearest", results[1].Title)
	}
}

func TestSearchClampsLimit(t *testing.T) {
	repo := &fakeSourceRepo{
		sources: []models.AcademicSource{
			{ID: 1, Title: "A", Embedding: []float32{1, 0, 0}},
			{ID: 2, Title: "B", Embedding: []float32{0, 1, 0}},
		},
	}
	svc := NewSourceService(repo, &fakeEmbedder{vec: []float32{1, 0, 0}}, zerolog.Nop())

	for _, k := range []int{0, -5, 21} {
		results, err := svc.Search(context.Background(), "query", k)
		if err != nil {
			t.Fatalf("Search(k=%d): %v", k, err)
		}
		if len(results) != 2 {
			t.Errorf("Search(k=%d) returned %d results, want all 2 under default limit", k, len(results))
		}
	}
}
