package llm

import (
	"context"
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": [1, 2]}\n```", `{"a": [1, 2]}`},
		{"prose around", `Here you go: {"a": "}"} hope that helps {"b": 2}`, `{"a": "}"}`},
		{"escaped quote", `{"a": "say \"hi\" {"}`, `{"a": "say \"hi\" {"}`},
		{"array", `result: [{"a": 1}]`, `[{"a": 1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if err != nil {
				t.Fatalf("ExtractJSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSON_Errors(t *testing.T) {
	for _, in := range []string{"", "no json here", `{"a": 1`, `{"a": 1]`} {
		if _, err := ExtractJSON(in); !errors.Is(err, ErrSchemaMismatch) {
			t.Errorf("ExtractJSON(%q) error = %v, want ErrSchemaMismatch", in, err)
		}
	}
}

func TestInferJSON(t *testing.T) {
	var out struct {
		Thesis string `json:"thesis"`
	}
	p := &stubProvider{name: "s", reply: "Sure!\n```json\n{\"thesis\": \"tax cuts raised revenue\"}\n```"}

	if _, err := InferJSON(context.Background(), p, Request{}, &out); err != nil {
		t.Fatalf("InferJSON: %v", err)
	}
	if out.Thesis != "tax cuts raised revenue" {
		t.Errorf("Thesis = %q", out.Thesis)
	}

	p.reply = `{"thesis": 42}`
	resp, err := InferJSON(context.Background(), p, Request{}, &out)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("expected ErrSchemaMismatch, got %v", err)
	}
	if resp == nil {
		t.Error("expected the raw response alongside a schema error")
	}
}
