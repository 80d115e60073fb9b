package converter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/young1lin/shopassist/internal/models"
)

// replyTemplate describes the object the model must return.
// It only feeds the schema embedded in the prompt; replies are decoded into models.ProductReply.
type replyTemplate struct {
	ProductName     string  `json:"product_name" jsonschema:"description=Name of the product"`
	Price           float64 `json:"price" jsonschema:"description=Current price as a plain number without currency symbol"`
	Link            string  `json:"link" jsonschema:"format=uri,description=URL of the product page"`
	ItemDescription string  `json:"item_description" jsonschema:"description=Short description of the product"`
	Reasoning       string  `json:"reasoning,omitempty" jsonschema:"description=Why this product fits the shopper's context"`
}

const fallbackTemplate = `{
  "product_name": string,
  "price": float,
  "link": string (URL),
  "item_description": string
}`

var replySchema = sync.OnceValue(func() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&replyTemplate{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fallbackTemplate
	}
	return string(data)
})

// ReplySchema returns the JSON Schema text the model is asked to follow
func ReplySchema() string {
	return replySchema()
}

// BuildSearchPrompt builds the single prompt sent for a product search.
// Price bounds are hints for the model; absent bounds are written as "none".
func BuildSearchPrompt(term string, minPrice, maxPrice models.OptionalNumber, context string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Item: %s\n", term)
	fmt.Fprintf(&b, "Min Price: %s\n", formatBound(minPrice))
	fmt.Fprintf(&b, "Max Price: %s\n", formatBound(maxPrice))
	if context = strings.TrimSpace(context); context != "" {
		fmt.Fprintf(&b, "Context: %s\n", context)
	}

	b.WriteString("\nYou are a shopping assistant. Search the web for the single best product matching the item and price range above.\n")
	b.WriteString("Respond with ONLY valid raw JSON. No markdown, no explanations, no extra text.\n")
	if context != "" {
		b.WriteString("Use the \"reasoning\" field to explain how the product fits the context.\n")
	}
	b.WriteString("Return a JSON object matching this JSON Schema:\n")
	b.WriteString(ReplySchema())
	b.WriteString("\n")

	return b.String()
}

func formatBound(n models.OptionalNumber) string {
	if !n.Valid {
		return "none"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
