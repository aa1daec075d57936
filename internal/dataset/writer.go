package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
)

// WriteCSV writes t with a header line. Missing numeric cells are written
// empty so ReadCSV reads them back as missing.
func WriteCSV(w io.Writer, t *boxscore.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteFile writes t to path through a temp file and rename, so readers
// never observe a partial file.
func WriteFile(path string, t *boxscore.Table) error {
	if path == "" {
		return fmt.Errorf("output path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
