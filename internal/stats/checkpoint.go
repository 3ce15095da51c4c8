package stats

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elevatorsim/smdp-elevator/internal/qlearn"
)

// QTablePath names the checkpoint file by k, the total training-episode
// count derived from the annealing factor (§8), so runs with a different
// annealing schedule never read back a stale Q-table.
func QTablePath(dataDir string, k int) string {
	return filepath.Join(dataDir, fmt.Sprintf("q_table_%d.gob", k))
}

// SaveCheckpoint gob-encodes cp to a temp file and renames it into place,
// so a crash mid-write never leaves a half-written checkpoint behind.
func SaveCheckpoint(path string, cp qlearn.Checkpoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating checkpoint directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating checkpoint file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(cp); err != nil {
		f.Close()
		return fmt.Errorf("encoding checkpoint: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing checkpoint file: %w", err)
	}

	return os.Rename(tmp, path)
}

// LoadCheckpoint reads a prior checkpoint. A missing file is not an error:
// it reports ok=false so the caller starts training from an empty Q-table.
func LoadCheckpoint(path string) (cp qlearn.Checkpoint, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return qlearn.Checkpoint{}, false, nil
		}
		return qlearn.Checkpoint{}, false, fmt.Errorf("opening checkpoint file: %w", err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&cp); err != nil {
		return qlearn.Checkpoint{}, false, fmt.Errorf("decoding checkpoint: %w", err)
	}
	return cp, true, nil
}
