package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const stateFileName = "status.json"

// FileRepository implements Repository using a JSON file.
type FileRepository struct {
	dir string
}

// NewFileRepository creates a new FileRepository for the given directory.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// Load retrieves the last saved state from disk.
// Returns an empty state and nil error if no state file exists.
func (r *FileRepository) Load(ctx context.Context) (State, error) {
	path := filepath.Join(r.dir, stateFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return state, nil
}

// Save persists the state by writing a temp file and renaming it over the
// previous record.
func (r *FileRepository) Save(ctx context.Context, state State) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	path := filepath.Join(r.dir, stateFileName)
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Path returns the full path to the state file.
func (r *FileRepository) Path() string {
	return filepath.Join(r.dir, stateFileName)
}
