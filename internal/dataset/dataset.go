package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-advanced-stats/internal/logging"
)

// Version labels recorded in a dataset's history.
const (
	VersionRaw  = "raw"
	dropVersion = "drop_v%d"
)

// RowObserver receives load telemetry. *metrics.Recorder satisfies it.
type RowObserver interface {
	RecordRowsLoaded(dataset string, rows int)
}

// Dataset is one named CSV dataset with its preprocessing history. Every
// step stores a copy of the table under a version label.
type Dataset struct {
	profile  Profile
	dir      string
	logger   *slog.Logger
	observer RowObserver

	data     *boxscore.Table
	versions map[string]*boxscore.Table
	history  []string
	drops    int
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithLogger sets the dataset logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dataset) { d.logger = logger }
}

// WithObserver sets the load telemetry sink.
func WithObserver(o RowObserver) Option {
	return func(d *Dataset) { d.observer = o }
}

// New returns the dataset called name, read from <dir>/<name>.csv.
func New(name, dir string, opts ...Option) (*Dataset, error) {
	p, err := LookupProfile(name)
	if err != nil {
		return nil, err
	}
	d := &Dataset{
		profile:  p,
		dir:      dir,
		versions: make(map[string]*boxscore.Table),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.profile.Name }

// Path returns the CSV file backing the dataset.
func (d *Dataset) Path() string {
	return filepath.Join(d.dir, d.profile.Name+".csv")
}

// Load reads the dataset file. In test mode only the first TestRowLimit rows are kept.
func (d *Dataset) Load(testMode bool) (*boxscore.Table, error) {
	f, err := os.Open(d.Path())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.profile.Name, err)
	}
	defer f.Close()
	return d.LoadFrom(f, testMode)
}

// LoadFrom reads the dataset from r instead of its file.
func (d *Dataset) LoadFrom(r io.Reader, testMode bool) (*boxscore.Table, error) {
	t, err := ReadCSV(r, d.profile)
	if err != nil {
		return nil, err
	}
	if testMode {
		t = t.Head(TestRowLimit)
	}
	d.data = t
	d.record(VersionRaw)

	if d.observer != nil {
		d.observer.RecordRowsLoaded(d.profile.Name, t.Len())
	}
	logging.Info(d.logger, "dataset loaded",
		logging.FieldDataset, d.profile.Name,
		logging.FieldRows, t.Len(),
		logging.FieldColumns, len(t.Columns()),
	)
	return d.data, nil
}

// Preprocess drops the profile's unused columns when drop is set and records
// the result as a new version.
func (d *Dataset) Preprocess(drop bool) *boxscore.Table {
	if d.data == nil || !drop {
		return d.data
	}
	d.data.Drop(d.profile.Drop...)
	label := fmt.Sprintf(dropVersion, d.drops)
	d.drops++
	d.record(label)
	logging.Info(d.logger, "dataset preprocessed",
		logging.FieldDataset, d.profile.Name,
		logging.FieldVersionTag, label,
		logging.FieldColumns, len(d.data.Columns()),
	)
	return d.data
}

// Data returns the current table, or nil before Load.
func (d *Dataset) Data() *boxscore.Table { return d.data }

// Version returns a copy of the table recorded under label.
func (d *Dataset) Version(label string) (*boxscore.Table, bool) {
	t, ok := d.versions[label]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// History lists the recorded version labels, oldest first.
func (d *Dataset) History() []string {
	out := make([]string, len(d.history))
	copy(out, d.history)
	return out
}

func (d *Dataset) record(label string) {
	d.versions[label] = d.data.Clone()
	d.history = append(d.history, label)
}

// ValidateBoxScore fails fast, naming the first required player-row column
// that t lacks.
func ValidateBoxScore(t *boxscore.Table) error {
	return t.Require(boxscore.RequiredColumns()...)
}
