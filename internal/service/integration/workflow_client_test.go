package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testDispatchRequest() *DispatchRequest {
	return &DispatchRequest{
		AssignmentID: 42,
		FileHash:     "abc123",
		StudentEmail: "student@example.com",
		RAGContext:   "Source: Paper A - Content: fragment",
		Filename:     "essay.txt",
		File:         []byte("essay content"),
	}
}

func TestDispatchSendsMultipartPayload(t *testing.T) {
	var gotFields map[string]string
	var gotFile []byte
	var gotFilename string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}

		gotFields = map[string]string{}
		for _, name := range []string{"assignment_id", "file_hash", "student_email", "rag_context"} {
			gotFields[name] = r.FormValue(name)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		gotFilename = header.Filename
		buf := make([]byte, header.Size)
		file.Read(buf)
		gotFile = buf
	}))
	defer server.Close()

	client := NewWorkflowClient(server.URL, time.Second, zerolog.Nop())
	if err := client.Dispatch(context.Background(), testDispatchRequest()); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if gotFields["assignment_id"] != "42" {
		t.Errorf("assignment_id = %q", gotFields["assignment_id"])
	}
	if gotFields["file_hash"] != "abc123" {
		t.Errorf("file_hash = %q", gotFields["file_hash"])
	}
	if gotFields["student_email"] != "student@example.com" {
		t.Errorf("student_email = %q", gotFields["student_email"])
	}
	if gotFields["rag_context"] != "Source: Paper A - Content: fragment" {
		t.Errorf("rag_context = %q", gotFields["rag_context"])
	}
	if gotFilename != "essay.txt" {
		t.Errorf("filename = %q", gotFilename)
	}
	if string(gotFile) != "essay content" {
		t.Errorf("file = %q", gotFile)
	}
}

func TestDispatchSkippedWithoutWebhook(t *testing.T) {
	client := NewWorkflowClient("", time.Second, zerolog.Nop())

	if err := client.Dispatch(context.Background(), testDispatchRequest()); err != nil {
		t.Errorf("Dispatch without webhook = %v, want nil", err)
	}
}

func TestDispatchReportsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewWorkflowClient(server.URL, time.Second, zerolog.Nop())
	if err := client.Dispatch(context.Background(), testDispatchRequest()); err == nil {
		t.Error("expected error for 5xx response")
	}
}

func TestDispatchTimesOutAgainstSlowWorkflow(t *testing.T) {
	block := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := NewWorkflowClient(server.URL, 50*time.Millisecond, zerolog.Nop())

	start := time.Now()
	err := client.Dispatch(context.Background(), testDispatchRequest())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("dispatch blocked for %v, want bounded by timeout", elapsed)
	}
}
