package manual

import (
	"encoding/json"
	"fmt"
	"strings"
)

// requireKeys verifies that raw is a JSON object carrying every listed
// top-level key. Parsing alone is not enough: a syntactically valid response
// missing its sections would silently produce an empty facet.
func requireKeys(raw json.RawMessage, keys ...string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("not a JSON object: %w", err)
	}

	var missing []string
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("response missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}
