package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalNumber(t *testing.T) {
	tests := []struct {
		name string
		json string
		want OptionalNumber
	}{
		{"Number", `12.5`, NumberOf(12.5)},
		{"Integer", `10`, NumberOf(10)},
		{"Numeric string", `" 42 "`, NumberOf(42)},
		{"Non-numeric string", `"abc"`, OptionalNumber{}},
		{"Empty string", `""`, OptionalNumber{}},
		{"Null", `null`, OptionalNumber{}},
		{"Bool", `true`, OptionalNumber{}},
		{"Object", `{"v":1}`, OptionalNumber{}},
		{"NaN string", `"NaN"`, OptionalNumber{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n OptionalNumber
			require.NoError(t, json.Unmarshal([]byte(tt.json), &n))
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestOptionalText(t *testing.T) {
	var v struct {
		A OptionalText `json:"a"`
		B OptionalText `json:"b"`
		C OptionalText `json:"c"`
		D OptionalText `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":null,"c":7}`), &v))

	assert.Equal(t, TextOf("x"), v.A)
	assert.False(t, v.B.Valid)
	assert.False(t, v.C.Valid)
	assert.False(t, v.D.Valid)
	assert.Nil(t, v.D.Ptr())
}

func TestIntPtr(t *testing.T) {
	tests := []struct {
		name string
		n    OptionalNumber
		want *int64
	}{
		{"Absent", OptionalNumber{}, nil},
		{"Truncates", NumberOf(1200.9), int64Ptr(1200)},
		{"Negative", NumberOf(-3.7), int64Ptr(-3)},
		{"Too large", NumberOf(1e20), nil},
		{"Too small", NumberOf(-1e20), nil},
		{"Two to the 63", NumberOf(9223372036854775808), nil},
		{"NaN", NumberOf(math.NaN()), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.n.IntPtr())
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestChatRequest(t *testing.T) {
	t.Run("Wrongly typed fields keep the turn", func(t *testing.T) {
		var req ChatRequest
		body := `{"item":"mouse","messages":[{"role":"user","content":"hi"},{"role":"user","content":42},{"role":7,"content":"ok"},"oops"]}`
		require.NoError(t, json.Unmarshal([]byte(body), &req))

		assert.Equal(t, TextOf("mouse"), req.Item)
		assert.Equal(t, []ChatMessage{
			{Role: "user", Content: "hi"},
			{Role: "user", Content: ""},
			{Role: "", Content: "ok"},
			{},
		}, req.Messages)
	})

	t.Run("Messages that are not a list fail the document", func(t *testing.T) {
		var req ChatRequest
		assert.Error(t, json.Unmarshal([]byte(`{"messages":"hi"}`), &req))
	})
}

func TestSearchRequest(t *testing.T) {
	t.Run("Non-numeric bound is absent", func(t *testing.T) {
		var req SearchRequest
		require.NoError(t, json.Unmarshal([]byte(`{"query":"mouse","min_price":"abc","max_price":50}`), &req))

		assert.Equal(t, "mouse", req.Term())
		assert.False(t, req.MinPrice.Valid)
		assert.Nil(t, req.MinPrice.Ptr())
		assert.Equal(t, NumberOf(50), req.MaxPrice)
	})

	t.Run("Item is used when query is empty", func(t *testing.T) {
		var req SearchRequest
		require.NoError(t, json.Unmarshal([]byte(`{"query":"","item":"  keyboard  "}`), &req))

		assert.Equal(t, "keyboard", req.Term())
	})

	t.Run("Query wins over item", func(t *testing.T) {
		req := SearchRequest{Query: TextOf("mouse"), Item: TextOf("keyboard")}
		assert.Equal(t, "mouse", req.Term())
	})

	t.Run("Whitespace query", func(t *testing.T) {
		req := SearchRequest{Query: TextOf("   ")}
		assert.Equal(t, "", req.Term())
	})
}

func TestFiltersEncoding(t *testing.T) {
	data, err := json.Marshal(SearchFilters{MinPrice: NumberOf(10).Ptr()})
	require.NoError(t, err)

	assert.JSONEq(t, `{"min_price":10,"max_price":null}`, string(data))
}
