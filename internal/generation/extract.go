package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON isolates and validates the JSON payload of a free-text model
// response. Models asked for JSON still occasionally wrap it in markdown
// fences or surround it with prose; this strips the noise and returns the
// first balanced object or array, whichever opens first.
//
// Deterministic: the same input always yields the same fragment.
func ExtractJSON(text string) (json.RawMessage, error) {
	cleaned := stripCodeFences(text)

	for _, candidate := range jsonCandidates(cleaned) {
		var probe interface{}
		if err := json.Unmarshal([]byte(candidate), &probe); err == nil {
			return json.RawMessage(candidate), nil
		}
	}

	return nil, &MalformedResponseError{
		Raw: text,
		Err: fmt.Errorf("no parseable JSON object or array found"),
	}
}

// stripCodeFences removes markdown code-fence lines (``` or ```json) so the
// scanner only sees payload text.
func stripCodeFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// jsonCandidates scans the input for top-level JSON object and array
// candidates, in order of appearance.
//
// It uses a byte-level state machine that tracks string literals and escape
// sequences, so braces and brackets inside strings never confuse the
// boundary detection. Iterating bytes is safe for the ASCII delimiters
// because UTF-8 guarantees ASCII bytes never occur inside multi-byte runes.
func jsonCandidates(s string) []string {
	var candidates []string
	var depth int
	var start = -1
	var opener, closer byte
	var inString bool
	var escape bool

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}

		if inString {
			if b == '\\' {
				escape = true
			} else if b == '"' {
				inString = false
			}
			continue
		}

		if depth > 0 && b == '"' {
			inString = true
			continue
		}

		if depth == 0 {
			if b == '{' || b == '[' {
				start = i
				opener = b
				if b == '{' {
					closer = '}'
				} else {
					closer = ']'
				}
				depth = 1
			}
			continue
		}

		switch b {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 && start != -1 {
				candidates = append(candidates, s[start:i+1])
				start = -1
			}
		}
	}

	return candidates
}
