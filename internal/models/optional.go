package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// OptionalNumber is a number that may be absent.
// Numbers and numeric strings decode as present; anything else decodes as absent
// without failing the surrounding document.
type OptionalNumber struct {
	Value float64
	Valid bool
}

// NumberOf returns a present OptionalNumber
func NumberOf(v float64) OptionalNumber {
	return OptionalNumber{Value: v, Valid: true}
}

func (n *OptionalNumber) UnmarshalJSON(data []byte) error {
	*n = OptionalNumber{}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}

	switch t := v.(type) {
	case float64:
		*n = NumberOf(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*n = NumberOf(f)
		}
	}
	return nil
}

func (n OptionalNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns nil when absent
func (n OptionalNumber) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// IntPtr truncates the value toward zero. It returns nil when the value is
// absent or does not fit in an int64.
func (n OptionalNumber) IntPtr() *int64 {
	if !n.Valid || math.IsNaN(n.Value) || n.Value < -(1<<63) || n.Value >= 1<<63 {
		return nil
	}
	v := int64(n.Value)
	return &v
}

// OptionalText is a string that may be absent. Non-string values decode as absent.
type OptionalText struct {
	Value string
	Valid bool
}

// TextOf returns a present OptionalText
func TextOf(s string) OptionalText {
	return OptionalText{Value: s, Valid: true}
}

func (t *OptionalText) UnmarshalJSON(data []byte) error {
	*t = OptionalText{}
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	*t = TextOf(s)
	return nil
}

func (t OptionalText) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return jsonNull, nil
	}
	return json.Marshal(t.Value)
}

// Ptr returns nil when absent
func (t OptionalText) Ptr() *string {
	if !t.Valid {
		return nil
	}
	s := t.Value
	return &s
}
