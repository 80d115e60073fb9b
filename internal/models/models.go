package models

import (
	"encoding/json"
	"strings"
)

// ==================== Search Models ====================

// SearchRequest represents the POST /find body
type SearchRequest struct {
	Query     OptionalText   `json:"query"`
	Item      OptionalText   `json:"item"`
	MinPrice  OptionalNumber `json:"min_price"`
	MaxPrice  OptionalNumber `json:"max_price"`
	Reasoning OptionalText   `json:"reasoning"`
}

// Term returns the trimmed search term. query wins over item when it is non-empty.
func (r *SearchRequest) Term() string {
	term := r.Query.Value
	if term == "" {
		term = r.Item.Value
	}
	return strings.TrimSpace(term)
}

// SearchFilters echoes the price bounds that were passed to the model
type SearchFilters struct {
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
}

// SearchResult represents one product in the search envelope.
// Absent fields encode as null; Currency is always set.
type SearchResult struct {
	Title       *string  `json:"title"`
	Price       *float64 `json:"price"`
	Currency    string   `json:"currency"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int64   `json:"review_count"`
	URL         *string  `json:"url"`
	Summary     *string  `json:"summary"`
	Reason      *string  `json:"reason"`
}

// SearchResponse is the envelope returned by POST /find
type SearchResponse struct {
	Item    string         `json:"item"`
	Filters SearchFilters  `json:"filters"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
	Source  string         `json:"source"`
}

// ==================== Completion Reply Models ====================

// ProductReply is the object the model is asked to produce.
// Every field is tolerant: a value of the wrong type decodes as absent.
type ProductReply struct {
	ProductName     OptionalText   `json:"product_name"`
	Price           OptionalNumber `json:"price"`
	Currency        OptionalText   `json:"currency"`
	Rating          OptionalNumber `json:"rating"`
	ReviewCount     OptionalNumber `json:"review_count"`
	Link            OptionalText   `json:"link"`
	ItemDescription OptionalText   `json:"item_description"`
	Reasoning       OptionalText   `json:"reasoning"`
}

// ==================== Chat Models ====================

// ChatMessage represents a single conversation turn
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant", "developer"
	Content string `json:"content"`
}

// UnmarshalJSON never fails. A role or content that is not a string decodes as
// empty, and a turn that is not an object decodes as an empty turn, so one bad
// field does not discard the rest of the conversation.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var turn struct {
		Role    OptionalText `json:"role"`
		Content OptionalText `json:"content"`
	}
	*m = ChatMessage{}
	if err := json.Unmarshal(data, &turn); err != nil {
		return nil
	}
	m.Role = turn.Role.Value
	m.Content = turn.Content.Value
	return nil
}

// ChatRequest represents the POST /chat body
type ChatRequest struct {
	Item     OptionalText  `json:"item"`
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse represents the POST /chat reply
type ChatResponse struct {
	Reply string `json:"reply"`
	Item  string `json:"item"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
