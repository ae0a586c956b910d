package grammar

import (
	"encoding/json"
	"fmt"
	"os"
)

// EscapeMap records how grammar tokens were escaped before alignment.
// It satisfies alignment.Grammar.
type EscapeMap struct {
	originalToEscaped map[string]string
}

type escapeFile struct {
	OriginalToEscaped map[string]string `json:"original_to_escaped"`
}

// New wraps an original-to-escaped token map.
func New(originalToEscaped map[string]string) *EscapeMap {
	if originalToEscaped == nil {
		originalToEscaped = map[string]string{}
	}
	return &EscapeMap{originalToEscaped: originalToEscaped}
}

// Load reads {"original_to_escaped": {...}} from path.
func Load(path string) (*EscapeMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar %s: %w", path, err)
	}
	var f escapeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse grammar %s: %w", path, err)
	}
	return New(f.OriginalToEscaped), nil
}

// OriginalToEscaped returns the original token to escaped text mapping.
func (m *EscapeMap) OriginalToEscaped() map[string]string {
	return m.originalToEscaped
}
