package search

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/briangreenhill/partsgpt/internal/parts"
)

var ErrMalformedResponse = errors.New("malformed model response")

const fence = "```"

// StripFences removes a surrounding Markdown code fence (``` or ```json)
// from the model output. Text without a leading fence is only trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, fence) {
		return s
	}
	s = s[len(fence):]
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

// ParseParts decodes model output into parts. A single object is treated as
// a one-element list.
func ParseParts(text string) ([]parts.Part, error) {
	body := StripFences(text)
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}

	res := gjson.Parse(body)
	var items []gjson.Result
	switch {
	case res.IsArray():
		items = res.Array()
	case res.IsObject():
		items = []gjson.Result{res}
	default:
		return nil, fmt.Errorf("%w: expected a JSON array, got %s", ErrMalformedResponse, res.Type)
	}

	out := make([]parts.Part, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedResponse, i)
		}
		price, err := parsePrice(first(item, "preco_medio", "averagePrice", "average_price"))
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedResponse, i, err)
		}
		out = append(out, parts.Part{
			Name:         first(item, "nome", "name").String(),
			Description:  first(item, "descricao", "description").String(),
			AveragePrice: price,
		})
	}
	return out, nil
}

// parsePrice accepts a JSON number or a numeric string. A missing or null
// price reads as 0.
func parsePrice(v gjson.Result) (float64, error) {
	var f float64
	switch v.Type {
	case gjson.Null:
		return 0, nil
	case gjson.Number:
		var err error
		if f, err = strconv.ParseFloat(v.Raw, 64); err != nil {
			return 0, fmt.Errorf("price %s out of range", v.Raw)
		}
	case gjson.String:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err != nil {
			return 0, fmt.Errorf("price %q is not a number", v.Str)
		}
	default:
		return 0, fmt.Errorf("price has type %s", v.Type)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("price %s is not finite", v.Raw)
	}
	if f < 0 {
		return 0, errors.New("negative price")
	}
	return f, nil
}

// first returns the value of the first key present on obj.
func first(obj gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := obj.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}
