// Package openai implements the AI gateway over any OpenAI-compatible
// chat-completions endpoint.
package openai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/seomate"
	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Defaults for Gateway.
const (
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second
	DefaultSystem  = "You are an SEO and content editing assistant. Follow the requested output format exactly and do not add commentary."
)

var _ seomate.Completer = (*Gateway)(nil)

// Gateway sends single-shot chat completions. It never retries.
type Gateway struct {
	client oai.Client

	Model   string
	System  string
	Timeout time.Duration
}

// NewGateway creates a Gateway for the given credential. An empty baseURL
// targets the vendor default endpoint.
func NewGateway(apiKey, baseURL string) *Gateway {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Gateway{
		client:  oai.NewClient(opts...),
		Model:   DefaultModel,
		System:  DefaultSystem,
		Timeout: DefaultTimeout,
	}
}

// Complete sends prompt with the fixed system role and classifies the result.
func (g *Gateway) Complete(ctx context.Context, prompt string, opts seomate.CompletionOptions) *seomate.AIResponse {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	params := oai.ChatCompletionNewParams{
		Model: oai.ChatModel(g.Model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(g.System),
			oai.UserMessage(prompt),
		},
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = oai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = oai.Float(opts.Temperature)
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return classify(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return seomate.FailedResponse(seomate.AIStatusFormatError, http.StatusOK, errors.New("response has no choices"))
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return seomate.FailedResponse(seomate.AIStatusFormatError, http.StatusOK, errors.New("response has no completion content"))
	}

	return &seomate.AIResponse{
		RawText:    content,
		Status:     seomate.AIStatusOK,
		StatusCode: http.StatusOK,
	}
}

// classify maps an SDK error onto a gateway status.
func classify(err error) *seomate.AIResponse {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Code == "insufficient_quota" {
			return seomate.FailedResponse(seomate.AIStatusQuotaError, apiErr.StatusCode, err)
		}
		return seomate.FailedResponse(seomate.AIStatusTransportError, apiErr.StatusCode, err)
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return seomate.FailedResponse(seomate.AIStatusTransportError, 0, err)
	}

	return seomate.FailedResponse(seomate.AIStatusFormatError, 0, err)
}
