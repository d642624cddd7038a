package quota

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// State is the persisted daily usage counter.
type State struct {
	Day       string    `json:"day"` // YYYY-MM-DD
	Used      int       `json:"used"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoadState reads the quota state from a JSON file. Returns a zero state if
// the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the quota state to a JSON file, creating parent
// directories as needed.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
