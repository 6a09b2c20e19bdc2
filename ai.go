package seomate

import (
	"context"
	"errors"
	"fmt"
)

// AIStatus classifies the outcome of a single AI gateway call.
type AIStatus string

// AIStatus constants.
const (
	AIStatusOK             AIStatus = "ok"
	AIStatusTransportError AIStatus = "transport_error"
	AIStatusQuotaError     AIStatus = "quota_error"
	AIStatusFormatError    AIStatus = "format_error"
)

// CompletionOptions tunes a single completion request. Zero values leave
// the vendor defaults in place.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
}

// AIResponse is the outcome of a gateway call. It is consumed immediately by
// callers and never persisted as-is.
type AIResponse struct {
	RawText    string
	Parsed     *StructuredAnalysis
	Status     AIStatus
	StatusCode int
	Err        error
}

// OK reports whether the call produced completion text.
func (r *AIResponse) OK() bool {
	return r != nil && r.Status == AIStatusOK
}

// AIError describes a failed gateway call.
type AIError struct {
	Status     AIStatus
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *AIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ai gateway %s (HTTP %d): %v", e.Status, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ai gateway %s: %v", e.Status, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AIError) Unwrap() error {
	return e.Err
}

// FailedResponse builds a non-ok response carrying an AIError.
func FailedResponse(status AIStatus, code int, err error) *AIResponse {
	return &AIResponse{
		Status:     status,
		StatusCode: code,
		Err:        &AIError{Status: status, StatusCode: code, Err: err},
	}
}

// CheckResponse returns resp, or a format_error response when resp is nil.
func CheckResponse(resp *AIResponse) *AIResponse {
	if resp == nil {
		return FailedResponse(AIStatusFormatError, 0, errors.New("no response"))
	}
	return resp
}

// Completer is the AI gateway: it sends one prompt to an external
// text-completion service and classifies the outcome. Implementations never
// retry and never cache. Complete must not return nil; callers still pass
// the result through CheckResponse.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) *AIResponse
}
