package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"go.uber.org/zap"

	"github.com/young1lin/shopassist/internal/config"
	"github.com/young1lin/shopassist/internal/models"
	"github.com/young1lin/shopassist/pkg/logger"
)

// OpenAIProvider implements Service on top of the OpenAI Responses API
type OpenAIProvider struct {
	client  openai.Client
	timeout time.Duration
}

// NewOpenAIProvider creates a provider. SDK retries are disabled so every
// Complete call makes exactly one outbound request.
func NewOpenAIProvider(cfg *config.CompletionConfig) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIProvider{
		client:  openai.NewClient(opts...),
		timeout: cfg.RequestTimeout(),
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Complete sends the request and concatenates the output text of the reply
func (p *OpenAIProvider) Complete(ctx context.Context, req *Request) (string, error) {
	if req.Prompt == "" && len(req.Messages) == 0 {
		return "", ErrEmptyRequest
	}

	log := logger.FromContext(ctx).With(zap.String("provider", p.Name()))
	params := buildParams(req)

	var opts []option.RequestOption
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		opts = append(opts, option.WithHeader("X-Trace-ID", traceID))
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	log.Info("sending request to completion service",
		zap.String("model", req.Model),
		zap.Bool("web_search", req.WebSearch),
		zap.Int("message_count", len(req.Messages)),
	)

	resp, err := p.client.Responses.New(ctx, params, opts...)
	if err != nil {
		return "", fmt.Errorf("responses request failed: %w", err)
	}

	text := outputText(resp)
	log.Info("received response from completion service",
		zap.String("response_id", resp.ID),
		zap.String("status", string(resp.Status)),
		zap.Int("output_chars", len(text)),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return text, nil
}

func buildParams(req *Request) responses.ResponseNewParams {
	params := responses.ResponseNewParams{
		Model: req.Model,
	}

	if len(req.Messages) > 0 {
		params.Input = responses.ResponseNewParamsInputUnion{
			OfInputItemList: toResponsesInput(req.Messages),
		}
	} else {
		params.Input = responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.Prompt),
		}
	}

	if req.WebSearch {
		params.Tools = append(params.Tools, responses.ToolUnionParam{
			OfWebSearch: &responses.WebSearchToolParam{},
		})
	}

	return params
}

// toResponsesInput converts chat messages to Responses API input items.
// developer maps to system; unknown roles are sent as user turns.
func toResponsesInput(messages []models.ChatMessage) responses.ResponseInputParam {
	result := make(responses.ResponseInputParam, 0, len(messages))

	for _, msg := range messages {
		role := responses.EasyInputMessageRoleUser
		switch strings.ToLower(msg.Role) {
		case "system", "developer":
			role = responses.EasyInputMessageRoleSystem
		case "assistant":
			role = responses.EasyInputMessageRoleAssistant
		}

		result = append(result, responses.ResponseInputItemUnionParam{
			OfMessage: &responses.EasyInputMessageParam{
				Role: role,
				Content: responses.EasyInputMessageContentUnionParam{
					OfString: openai.String(msg.Content),
				},
			},
		})
	}

	return result
}

// outputText collects the text parts of every output message
func outputText(resp *responses.Response) string {
	var content strings.Builder
	for _, item := range resp.Output {
		switch item := item.AsAny().(type) {
		case responses.ResponseOutputMessage:
			for _, part := range item.Content {
				switch part := part.AsAny().(type) {
				case responses.ResponseOutputText:
					content.WriteString(part.Text)
				}
			}
		}
	}
	return strings.TrimSpace(content.String())
}
