package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON returns the first balanced JSON object or array in text,
// skipping code fences and prose around it
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "\ufeff")

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON value in reply", ErrSchemaMismatch)
	}

	var stack []byte
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return "", fmt.Errorf("%w: unbalanced JSON in reply", ErrSchemaMismatch)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: truncated JSON in reply", ErrSchemaMismatch)
}

// Decode extracts the JSON value from a reply and unmarshals it into out
func Decode(text string, out any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return nil
}

// InferJSON runs one call and decodes the reply into out
func InferJSON(ctx context.Context, p Provider, req Request, out any) (*Response, error) {
	resp, err := p.Infer(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := Decode(resp.Text, out); err != nil {
		return resp, err
	}
	return resp, nil
}
