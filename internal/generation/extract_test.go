package generation

import (
	"errors"
	"testing"
)

func TestExtractJSONBareObject(t *testing.T) {
	raw, err := ExtractJSON(`{"nome": "Clara", "idade": 34}`)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if string(raw) != `{"nome": "Clara", "idade": 34}` {
		t.Errorf("unexpected fragment: %s", raw)
	}
}

func TestExtractJSONFenced(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "json fence",
			input: "```json\n{\"score\": 7}\n```",
			want:  `{"score": 7}`,
		},
		{
			name:  "bare fence",
			input: "```\n[1, 2, 3]\n```",
			want:  `[1, 2, 3]`,
		},
		{
			name:  "fence with prose before",
			input: "Aqui está a análise solicitada:\n```json\n{\"score\": 7}\n```\nEspero que ajude.",
			want:  `{"score": 7}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ExtractJSON(tt.input)
			if err != nil {
				t.Fatalf("ExtractJSON failed: %v", err)
			}
			if string(raw) != tt.want {
				t.Errorf("got %s, want %s", raw, tt.want)
			}
		})
	}
}

func TestExtractJSONSurroundingProse(t *testing.T) {
	input := `Claro! Segue o resultado: {"traits": ["curiosa", "resiliente"]} como pedido.`
	raw, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if string(raw) != `{"traits": ["curiosa", "resiliente"]}` {
		t.Errorf("unexpected fragment: %s", raw)
	}
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	input := `{"quote": "ela disse {assim} e \"depois\" saiu", "ok": true}`
	raw, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if string(raw) != input {
		t.Errorf("string-embedded braces broke boundary detection: %s", raw)
	}
}

func TestExtractJSONIdempotent(t *testing.T) {
	input := "prefácio ```json\n{\"a\": 1}\n``` posfácio"
	first, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	second, err := ExtractJSON(string(first))
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("not idempotent: %s vs %s", first, second)
	}
}

func TestExtractJSONSkipsInvalidCandidates(t *testing.T) {
	// First balanced fragment is not valid JSON; scanner must try the next.
	input := `{invalid} depois {"valid": true}`
	raw, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if string(raw) != `{"valid": true}` {
		t.Errorf("expected second candidate, got %s", raw)
	}
}

func TestExtractJSONNoPayload(t *testing.T) {
	for _, input := range []string{
		"",
		"nenhum JSON por aqui",
		"aberto { sem fechar",
		"```\nsó texto\n```",
	} {
		_, err := ExtractJSON(input)
		if err == nil {
			t.Errorf("expected error for %q", input)
			continue
		}
		var malformed *MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Errorf("expected MalformedResponseError for %q, got %T", input, err)
		}
		if malformed != nil && malformed.Raw != input {
			t.Errorf("Raw not preserved for %q", input)
		}
	}
}
