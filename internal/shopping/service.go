package shopping

import (
	"context"

	"go.uber.org/zap"

	"github.com/young1lin/shopassist/internal/completion"
	"github.com/young1lin/shopassist/internal/config"
	"github.com/young1lin/shopassist/internal/converter"
	"github.com/young1lin/shopassist/internal/models"
	"github.com/young1lin/shopassist/pkg/logger"
)

// Source tags every search envelope
const Source = "chatgpt-web-search"

// Service answers product searches and follow-up chats with one completion call each
type Service struct {
	completion  completion.Service
	searchModel string
	chatModel   string
	webSearch   bool
}

// NewService creates a service bound to a completion provider
func NewService(svc completion.Service, cfg *config.CompletionConfig) *Service {
	return &Service{
		completion:  svc,
		searchModel: cfg.SearchModel,
		chatModel:   cfg.ChatModel,
		webSearch:   cfg.WebSearch,
	}
}

// Search asks the model for the best product matching the request
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	log := logger.FromContext(ctx)

	term := req.Term()
	if term == "" {
		return nil, &ValidationError{Field: "query", Message: "empty query"}
	}

	prompt := converter.BuildSearchPrompt(term, req.MinPrice, req.MaxPrice, req.Reasoning.Value)
	log.Debug("search prompt built", zap.String("item", term), zap.String("prompt", prompt))

	raw, err := s.completion.Complete(ctx, &completion.Request{
		Model:     s.searchModel,
		WebSearch: s.webSearch,
		Prompt:    prompt,
	})
	if err != nil {
		log.Error("completion call failed", zap.String("op", "search"), zap.Error(err))
		return nil, &UpstreamError{Op: "search", Err: err}
	}

	reply, err := converter.ParseReply(raw)
	if err != nil {
		log.Warn("completion reply is not a product object",
			zap.Error(err),
			zap.String("raw", truncateString(raw, 500)),
		)
		return nil, &UpstreamFormatError{Raw: raw, Err: err}
	}

	result := converter.ConvertResult(reply)
	log.Info("search completed", zap.String("item", term), zap.Bool("has_title", result.Title != nil))

	return &models.SearchResponse{
		Item: term,
		Filters: models.SearchFilters{
			MinPrice: req.MinPrice.Ptr(),
			MaxPrice: req.MaxPrice.Ptr(),
		},
		Results: []models.SearchResult{result},
		Count:   1,
		Source:  Source,
	}, nil
}

// Chat replays the conversation about an item through the model
func (s *Service) Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	log := logger.FromContext(ctx)

	if len(req.Messages) == 0 {
		return nil, &ValidationError{Field: "messages", Message: "no messages"}
	}

	item := req.Item.Value
	reply, err := s.completion.Complete(ctx, &completion.Request{
		Model:    s.chatModel,
		Messages: converter.BuildConversation(item, req.Messages),
	})
	if err != nil {
		log.Error("completion call failed", zap.String("op", "chat"), zap.Error(err))
		return nil, &UpstreamError{Op: "chat", Err: err}
	}

	log.Info("chat completed", zap.String("item", item), zap.Int("turns", len(req.Messages)))
	return &models.ChatResponse{Reply: reply, Item: item}, nil
}

// truncateString truncates a string for logging
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
