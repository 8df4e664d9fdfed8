package verify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jeditech/verify-hub/internal/pkg/httpretry"
)

// Verifier abstracts the remote verification workflow, one operation per
// input mode. The HTTP implementation is WorkflowClient; tests inject
// scripted doubles.
type Verifier interface {
	VerifySingle(ctx context.Context, email string) (*Outcome, error)
	VerifyBulk(ctx context.Context, emails []string) (*Outcome, error)
	VerifyFile(ctx context.Context, filename string, data []byte) (*Outcome, error)
}

// VerificationError wraps any transport or remote failure from the workflow.
// The client itself performs no retries; retry policy, if any, belongs to the
// caller via the injected HTTPDoer.
type VerificationError struct {
	Op  string // "single", "bulk", or "file"
	Err error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification %s request failed: %v", e.Op, e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// Config holds the workflow client settings.
type Config struct {
	WebhookURL string
	Timeout    time.Duration
}

// WorkflowClient submits verification requests to the configured webhook URL.
type WorkflowClient struct {
	webhookURL string
	httpClient httpretry.HTTPDoer
}

var _ Verifier = (*WorkflowClient)(nil)

// NewWorkflowClient creates a client for the remote verification workflow.
func NewWorkflowClient(config Config) *WorkflowClient {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &WorkflowClient{
		webhookURL: config.WebhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetHTTPClient sets a custom HTTP client. Used by tests, and by callers that
// opt in to retries by supplying an httpretry.RetryClient.
func (c *WorkflowClient) SetHTTPClient(client httpretry.HTTPDoer) {
	c.httpClient = client
}

// VerifySingle submits one address, tagged method=single.
func (c *WorkflowClient) VerifySingle(ctx context.Context, email string) (*Outcome, error) {
	return c.submit(ctx, "single", map[string]any{
		"method": "single",
		"email":  email,
	})
}

// VerifyBulk submits a batch of addresses, tagged method=bulk. The request
// carries a batch identifier for idempotency/tracing on the workflow side.
func (c *WorkflowClient) VerifyBulk(ctx context.Context, emails []string) (*Outcome, error) {
	return c.submit(ctx, "bulk", map[string]any{
		"method":  "bulk",
		"emails":  emails,
		"batchId": NewBatchID(),
	})
}

// VerifyFile submits raw file content, tagged method=file. Content is base64
// encoded so the workflow receives JSON, not binary.
func (c *WorkflowClient) VerifyFile(ctx context.Context, filename string, data []byte) (*Outcome, error) {
	return c.submit(ctx, "file", map[string]any{
		"method":   "file",
		"fileName": filename,
		"fileData": base64.StdEncoding.EncodeToString(data),
	})
}

func (c *WorkflowClient) submit(ctx context.Context, op string, body map[string]any) (*Outcome, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &VerificationError{Op: op, Err: fmt.Errorf("failed to marshal request body: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, &VerificationError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &VerificationError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &VerificationError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &VerificationError{Op: op, Err: fmt.Errorf("workflow returned status %d: %s", resp.StatusCode, truncate(respBody, 512))}
	}

	out, err := DecodeOutcome(respBody)
	if err != nil {
		return nil, &VerificationError{Op: op, Err: fmt.Errorf("failed to parse workflow response: %w", err)}
	}
	return out, nil
}

// NewBatchID derives a traceable batch identifier. The millisecond prefix
// matches what the workflow indexes on; the uuid fragment keeps ids unique
// when submissions land in the same millisecond.
func NewBatchID() string {
	return fmt.Sprintf("batch_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
