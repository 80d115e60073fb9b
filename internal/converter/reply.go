package converter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/young1lin/shopassist/internal/models"
)

// DefaultCurrency is used when the reply carries no currency
const DefaultCurrency = "USD"

var fenceReplacer = strings.NewReplacer("```json", "", "```", "")

// ErrNoObject is returned when the reply contains no JSON object
var ErrNoObject = errors.New("reply contains no JSON object")

// CleanReply removes markdown code fences and narrows the text to the span
// between the first '{' and the last '}' when both are present.
func CleanReply(raw string) string {
	text := strings.TrimSpace(fenceReplacer.Replace(raw))

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// ParseReply cleans the raw completion text and decodes it as a product object
func ParseReply(raw string) (*models.ProductReply, error) {
	cleaned := CleanReply(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return nil, ErrNoObject
	}

	var reply models.ProductReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, fmt.Errorf("failed to decode reply: %w", err)
	}
	return &reply, nil
}

// ConvertResult maps a parsed reply onto the result schema.
// Absent fields stay absent except currency.
func ConvertResult(reply *models.ProductReply) models.SearchResult {
	currency := reply.Currency.Value
	if currency == "" {
		currency = DefaultCurrency
	}

	return models.SearchResult{
		Title:       reply.ProductName.Ptr(),
		Price:       reply.Price.Ptr(),
		Currency:    currency,
		Rating:      reply.Rating.Ptr(),
		ReviewCount: reply.ReviewCount.IntPtr(),
		URL:         reply.Link.Ptr(),
		Summary:     reply.ItemDescription.Ptr(),
		Reason:      reply.Reasoning.Ptr(),
	}
}
