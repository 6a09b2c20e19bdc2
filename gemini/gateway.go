package gemini

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/seomate"
	"google.golang.org/genai"
)

// Defaults for Gateway.
const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 30 * time.Second
	DefaultSystem  = "You are an SEO and content editing assistant. Follow the requested output format exactly and do not add commentary."
)

// Ensure Gateway implements seomate.Completer at compile time.
var _ seomate.Completer = (*Gateway)(nil)

// Gateway implements seomate.Completer using Google Gemini.
type Gateway struct {
	client *genai.Client

	Model   string
	System  string
	Timeout time.Duration
}

// NewGateway creates a new Gateway.
func NewGateway(client *genai.Client) *Gateway {
	return &Gateway{
		client:  client,
		Model:   DefaultModel,
		System:  DefaultSystem,
		Timeout: DefaultTimeout,
	}
}

// Complete generates content for prompt and classifies the outcome.
func (g *Gateway) Complete(ctx context.Context, prompt string, opts seomate.CompletionOptions) *seomate.AIResponse {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	result, err := g.client.Models.GenerateContent(ctx, g.Model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(g.System, opts),
	)
	if err != nil {
		return classify(err)
	}
	if result == nil {
		return seomate.FailedResponse(seomate.AIStatusFormatError, 200, errors.New("gemini returned nil result"))
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return seomate.FailedResponse(seomate.AIStatusFormatError, 200, errors.New("gemini returned no text"))
	}

	return &seomate.AIResponse{RawText: text, Status: seomate.AIStatusOK, StatusCode: 200}
}

// BuildConfig returns the GenerateContentConfig for a completion request.
func BuildConfig(system string, opts seomate.CompletionOptions) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}
	if opts.Temperature > 0 {
		temp := float32(opts.Temperature)
		config.Temperature = &temp
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	return config
}

func classify(err error) *seomate.AIResponse {
	if code, status, ok := apiError(err); ok {
		if code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED" {
			return seomate.FailedResponse(seomate.AIStatusQuotaError, http.StatusTooManyRequests, err)
		}
		return seomate.FailedResponse(seomate.AIStatusTransportError, code, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return seomate.FailedResponse(seomate.AIStatusTransportError, 0, err)
	}
	return seomate.FailedResponse(seomate.AIStatusFormatError, 0, err)
}

// apiError extracts the HTTP code and status name of a Gemini API error.
func apiError(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Status, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Status, true
	}
	return 0, "", false
}
