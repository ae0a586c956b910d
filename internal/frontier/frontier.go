package frontier

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region types
// Entry is one candidate program found for a task.
type Entry struct {
	Tokens []string `json:"tokens"`
}

// Frontier holds the candidate programs found for a single task.
type Frontier struct {
	Task    string  `json:"task"`
	Entries []Entry `json:"entries"`
}
// #endregion types

// #region loader
// Load reads a JSON array of frontiers. File order is preserved so that
// downstream example selection is deterministic.
func Load(path string) ([]Frontier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read frontiers %s: %w", path, err)
	}
	var frontiers []Frontier
	if err := json.Unmarshal(data, &frontiers); err != nil {
		return nil, fmt.Errorf("parse frontiers %s: %w", path, err)
	}
	return frontiers, nil
}

// TaskNames returns the task of every frontier in order.
func TaskNames(frontiers []Frontier) []string {
	names := make([]string, len(frontiers))
	for i, f := range frontiers {
		names[i] = f.Task
	}
	return names
}
// #endregion loader
