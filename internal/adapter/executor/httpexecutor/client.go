// package httpexecutor runs submissions on a remote sandbox over HTTP
package httpexecutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"gitlab.com/answer-validator.net/internal/config"
	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/core/ports/secondary"
	"gitlab.com/answer-validator.net/internal/domain"
)

var _ secondary.CodeExecutor = (*Executor)(nil)

const maxErrorBody = 4 << 10

type executeRequest struct {
	Input         domain.Value `json:"input"`
	Submission    domain.Value `json:"submission"`
	TimeoutMs     int          `json:"timeoutMs"`
	MemoryLimitMB int          `json:"memoryLimitMB"`
}

type executeResponse struct {
	Status   string       `json:"status"`
	Output   domain.Value `json:"output"`
	TimeMs   float64      `json:"timeMs"`
	MemoryMB float64      `json:"memoryMB"`
	Error    string       `json:"error"`
}

const (
	statusOK             = "ok"
	statusTimeout        = "timeout"
	statusMemoryExceeded = "memory_exceeded"
	statusRuntimeError   = "runtime_error"
)

// Executor posts each run to {SandboxUrl}/execute
type Executor struct {
	url    string
	token  string
	client *http.Client
	logger primary.Logger
}

func NewExecutor(cfg *config.ExecutorConfig, logger primary.Logger) *Executor {
	return &Executor{
		url:    strings.TrimSuffix(cfg.SandboxUrl, "/") + "/execute",
		token:  cfg.Token,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		logger: logger,
	}
}

func (e *Executor) Execute(ctx context.Context, req secondary.ExecRequest) (*secondary.ExecResult, error) {
	body, err := json.Marshal(executeRequest{
		Input:         req.Input,
		Submission:    req.Submission,
		TimeoutMs:     req.TimeoutMs,
		MemoryLimitMB: req.MemoryLimitMB,
	})
	if err != nil {
		return nil, &secondary.ExecError{Kind: secondary.ExecErrorRuntime, Message: fmt.Sprintf("failed to encode request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build sandbox request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			e.logger.Warn("Sandbox request timed out", "url", e.url, "error", err)
			return nil, &secondary.ExecError{Kind: secondary.ExecErrorTimeout, Message: fmt.Sprintf("sandbox request timed out: %v", err)}
		}
		e.logger.Error("Failed to call sandbox", "url", e.url, "error", err)
		return nil, fmt.Errorf("failed to call sandbox: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		e.logger.Warn("Sandbox returned an error status", "statusCode", resp.StatusCode)
		return nil, &secondary.ExecError{
			Kind:    secondary.ExecErrorRuntime,
			Message: fmt.Sprintf("sandbox returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
		}
	}

	var out executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &secondary.ExecError{Kind: secondary.ExecErrorRuntime, Message: fmt.Sprintf("failed to decode sandbox response: %v", err)}
	}

	switch out.Status {
	case statusOK:
		return &secondary.ExecResult{
			Output:          out.Output,
			ExecutionTimeMs: out.TimeMs,
			MemoryUsageMB:   out.MemoryMB,
		}, nil
	case statusTimeout:
		return nil, newExecError(secondary.ExecErrorTimeout, out)
	case statusMemoryExceeded:
		return nil, newExecError(secondary.ExecErrorMemoryExceeded, out)
	case statusRuntimeError:
		return nil, newExecError(secondary.ExecErrorRuntime, out)
	default:
		return nil, &secondary.ExecError{Kind: secondary.ExecErrorRuntime, Message: fmt.Sprintf("unknown sandbox status %q", out.Status)}
	}
}

func newExecError(kind secondary.ExecErrorKind, out executeResponse) *secondary.ExecError {
	msg := out.Error
	if msg == "" {
		msg = string(kind)
	}
	return &secondary.ExecError{
		Kind:            kind,
		Message:         msg,
		ExecutionTimeMs: out.TimeMs,
		MemoryUsageMB:   out.MemoryMB,
	}
}
