package converter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/young1lin/shopassist/internal/models"
)

func TestCleanReply(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "Plain object",
			raw:  `{"product_name":"Widget","price":9.99}`,
			want: `{"product_name":"Widget","price":9.99}`,
		},
		{
			name: "Json fence",
			raw:  "```json\n{\"product_name\":\"Widget\",\"price\":9.99}\n```",
			want: `{"product_name":"Widget","price":9.99}`,
		},
		{
			name: "Bare fence",
			raw:  "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "Surrounding prose",
			raw:  "Here is the product you asked for: {\"a\":{\"b\":2}} Hope this helps!",
			want: `{"a":{"b":2}}`,
		},
		{
			name: "No braces",
			raw:  "  I could not find anything.  ",
			want: "I could not find anything.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanReply(tt.raw))
		})
	}
}

func TestParseReply(t *testing.T) {
	t.Run("Fenced and plain replies parse the same", func(t *testing.T) {
		fenced, err := ParseReply("```json\n{\"product_name\":\"Widget\",\"price\":9.99}\n```")
		require.NoError(t, err)

		plain, err := ParseReply(`{"product_name":"Widget","price":9.99}`)
		require.NoError(t, err)

		assert.Equal(t, plain, fenced)
		assert.Equal(t, models.TextOf("Widget"), plain.ProductName)
		assert.Equal(t, models.NumberOf(9.99), plain.Price)
	})

	t.Run("Wrongly typed fields are absent", func(t *testing.T) {
		reply, err := ParseReply(`{"product_name":42,"price":"about ten","rating":"4.5"}`)
		require.NoError(t, err)

		assert.False(t, reply.ProductName.Valid)
		assert.False(t, reply.Price.Valid)
		assert.Equal(t, models.NumberOf(4.5), reply.Rating)
	})

	t.Run("Not an object", func(t *testing.T) {
		_, err := ParseReply("Sorry, I cannot help with that.")
		assert.ErrorIs(t, err, ErrNoObject)
	})

	t.Run("Broken JSON", func(t *testing.T) {
		_, err := ParseReply(`{"product_name": "Widget", "price": }`)
		assert.Error(t, err)
	})

	t.Run("Empty reply", func(t *testing.T) {
		_, err := ParseReply("")
		assert.Error(t, err)
	})
}

func TestConvertResult(t *testing.T) {
	t.Run("Currency defaults to USD", func(t *testing.T) {
		reply, err := ParseReply(`{"product_name":"Widget","price":9.99}`)
		require.NoError(t, err)

		result := ConvertResult(reply)
		assert.Equal(t, "USD", result.Currency)
	})

	t.Run("Currency is preserved", func(t *testing.T) {
		reply, err := ParseReply(`{"product_name":"Widget","price":9.99,"currency":"EUR"}`)
		require.NoError(t, err)

		result := ConvertResult(reply)
		assert.Equal(t, "EUR", result.Currency)
	})

	t.Run("Field mapping", func(t *testing.T) {
		reply, err := ParseReply(`{
			"product_name": "Logitech M185",
			"price": 19.99,
			"rating": 4.6,
			"review_count": 1200,
			"link": "http://example.com",
			"item_description": "A wireless mouse",
			"reasoning": "Cheap and reliable"
		}`)
		require.NoError(t, err)

		result := ConvertResult(reply)
		require.NotNil(t, result.Title)
		assert.Equal(t, "Logitech M185", *result.Title)
		require.NotNil(t, result.Price)
		assert.Equal(t, 19.99, *result.Price)
		require.NotNil(t, result.Rating)
		assert.Equal(t, 4.6, *result.Rating)
		require.NotNil(t, result.ReviewCount)
		assert.Equal(t, int64(1200), *result.ReviewCount)
		require.NotNil(t, result.URL)
		assert.Equal(t, "http://example.com", *result.URL)
		require.NotNil(t, result.Summary)
		assert.Equal(t, "A wireless mouse", *result.Summary)
		require.NotNil(t, result.Reason)
		assert.Equal(t, "Cheap and reliable", *result.Reason)
	})

	t.Run("Absent fields encode as null", func(t *testing.T) {
		reply, err := ParseReply(`{}`)
		require.NoError(t, err)

		data, err := json.Marshal(ConvertResult(reply))
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"title": null,
			"price": null,
			"currency": "USD",
			"rating": null,
			"review_count": null,
			"url": null,
			"summary": null,
			"reason": null
		}`, string(data))
	})
}

func TestBuildSearchPrompt(t *testing.T) {
	t.Run("Bounds and schema", func(t *testing.T) {
		prompt := BuildSearchPrompt("wireless mouse", models.NumberOf(10), models.OptionalNumber{}, "")

		assert.Contains(t, prompt, "Item: wireless mouse")
		assert.Contains(t, prompt, "Min Price: 10\n")
		assert.Contains(t, prompt, "Max Price: none\n")
		assert.Contains(t, prompt, "ONLY valid raw JSON")
		assert.NotContains(t, prompt, "Context:")
		for _, field := range []string{"product_name", "price", "link", "item_description"} {
			assert.Contains(t, prompt, `"`+field+`"`)
		}
	})

	t.Run("With context", func(t *testing.T) {
		prompt := BuildSearchPrompt("desk", models.OptionalNumber{}, models.NumberOf(199.5), "  small apartment  ")

		assert.Contains(t, prompt, "Max Price: 199.5\n")
		assert.Contains(t, prompt, "Context: small apartment\n")
		assert.Contains(t, prompt, `"reasoning"`)
	})
}

func TestReplySchema(t *testing.T) {
	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(ReplySchema()), &schema))

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok, "schema should be inlined with properties")
	assert.Contains(t, props, "product_name")
	assert.Contains(t, props, "reasoning")

	required, ok := schema["required"].([]interface{})
	require.True(t, ok)
	assert.ElementsMatch(t, []interface{}{"product_name", "price", "link", "item_description"}, required)
}

func TestBuildConversation(t *testing.T) {
	t.Run("System message comes first", func(t *testing.T) {
		messages := []models.ChatMessage{
			{Role: "user", Content: "Is it durable?"},
			{Role: "assistant", Content: "Yes."},
			{Role: "user", Content: "Battery life?"},
		}

		conversation := BuildConversation("Logitech M185", messages)

		require.Len(t, conversation, 4)
		assert.Equal(t, "system", conversation[0].Role)
		assert.Contains(t, conversation[0].Content, "Logitech M185")
		assert.Equal(t, messages, conversation[1:])
	})

	t.Run("Empty item", func(t *testing.T) {
		conversation := BuildConversation("", []models.ChatMessage{{Role: "user", Content: "hi"}})

		require.Len(t, conversation, 2)
		assert.True(t, strings.HasPrefix(conversation[0].Content, "You are a helpful shopping assistant"))
	})

	t.Run("Caller slice untouched", func(t *testing.T) {
		messages := make([]models.ChatMessage, 1, 4)
		messages[0] = models.ChatMessage{Role: "user", Content: "hi"}

		BuildConversation("x", messages)

		assert.Equal(t, "user", messages[0].Role)
	})
}
