package manual

import (
	"encoding/json"
	"testing"
)

func TestRequireKeys(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		keys    []string
		wantErr bool
	}{
		{"all present", `{"a": 1, "b": null}`, []string{"a", "b"}, false},
		{"null value still counts", `{"a": null}`, []string{"a"}, false},
		{"missing key", `{"a": 1}`, []string{"a", "b"}, true},
		{"not an object", `[1, 2]`, []string{"a"}, true},
		{"empty object", `{}`, []string{"a"}, true},
		{"no required keys", `{}`, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireKeys(json.RawMessage(tt.raw), tt.keys...)
			if (err != nil) != tt.wantErr {
				t.Errorf("requireKeys() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
