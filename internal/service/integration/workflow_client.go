package integration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// WorkflowClient notifies the external analysis workflow about a newly
// persisted assignment. Delivery is best-effort: the job row is already
// durable before Dispatch is called, so a failed or timed-out dispatch only
// delays the notification, it never loses the job. Callers log the returned
// error and continue.
type WorkflowClient interface {
	Dispatch(ctx context.Context, req *DispatchRequest) error
}

type DispatchRequest struct {
	AssignmentID int64
	FileHash     string
	StudentEmail string
	RAGContext   string
	Filename     string
	File         []byte
}

type workflowClient struct {
	webhookURL string
	timeout    time.Duration
	client     *http.Client
	logger     zerolog.Logger
}

func NewWorkflowClient(webhookURL string, timeout time.Duration, logger zerolog.Logger) WorkflowClient {
	return &workflowClient{
		webhookURL: webhookURL,
		timeout:    timeout,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *workflowClient) Dispatch(ctx context.Context, req *DispatchRequest) error {
	if c.webhookURL == "" {
		c.logger.Debug().Msg("No workflow webhook configured, dispatch skipped")
		return nil
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"assignment_id": strconv.FormatInt(req.AssignmentID, 10),
		"file_hash":     req.FileHash,
		"student_email": req.StudentEmail,
		"rag_context":   req.RAGContext,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile("file", req.Filename)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(req.File); err != nil {
		return fmt.Errorf("failed to write file part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(dispatchCtx, http.MethodPost, c.webhookURL, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		// A timeout is a normal outcome here; the workflow may still pick the
		// job up on its own schedule.
		return fmt.Errorf("workflow dispatch failed: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("workflow returned status %d", resp.StatusCode)
	}

	c.logger.Info().
		Int64("assignment_id", req.AssignmentID).
		Str("file_hash", req.FileHash).
		Msg("Assignment dispatched to analysis workflow")

	return nil
}
