// internal/store/dir.go
//
// File-backed game store used by the score record and the board engine.
// Layout of a store directory:
//   - score.xml     - current session score + best-score table.
//   - game.xml      - saved board layout for "continue game".
//   - settings.yaml - engine settings captured on save.
//   - history.db    - SQLite history of finished games.
//
// Characteristics:
//   - Missing or zero-length files read as "not found", never as an error.
//   - Writes are atomic (temp file + rename in the same directory), so a crash
//     mid-save leaves the previous snapshot intact.
//   - Single writer assumed; nothing here guards against a second process.

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Fixed file names inside a store directory.
const (
	ScoreFile    = "score.xml"
	BoardFile    = "game.xml"
	SettingsFile = "settings.yaml"
	HistoryFile  = "history.db"
)

// Dir is the game-store directory.
type Dir string

// ScorePath returns the path of the score snapshot.
func (d Dir) ScorePath() string { return filepath.Join(string(d), ScoreFile) }

// BoardPath returns the path of the saved board.
func (d Dir) BoardPath() string { return filepath.Join(string(d), BoardFile) }

// SettingsPath returns the path of the saved settings.
func (d Dir) SettingsPath() string { return filepath.Join(string(d), SettingsFile) }

// HistoryPath returns the default SQLite history path.
func (d Dir) HistoryPath() string { return filepath.Join(string(d), HistoryFile) }

// ReadFile reads path. found is false (with a nil error) when the file does not
// exist or is empty.
func ReadFile(path string) (data []byte, found bool, err error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if info.Mode().IsRegular() && info.Size() == 0 {
		return nil, false, nil
	}
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

// WriteFile replaces path with data atomically, creating the parent directory
// when needed.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
