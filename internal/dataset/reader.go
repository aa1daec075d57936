package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-advanced-stats/internal/timeutil"
)

var (
	// ErrInvalidMinutes is returned for a minutes cell that is neither "MM:SS" nor a number.
	ErrInvalidMinutes = errors.New("invalid minutes")
	// ErrInvalidDate is returned for a date cell that does not match timeutil.DateLayout.
	ErrInvalidDate = errors.New("invalid date")
)

// nanValues are the raw cells gota reads as missing.
var nanValues = []string{"", "NA", "NaN", "nan", "<nil>"}

// ReadCSV parses delimited data with the profile's column typing. Columns the
// profile does not name are type-detected.
func ReadCSV(r io.Reader, p Profile) (*boxscore.Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nanValues),
		dataframe.WithTypes(columnTypes(p)),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read %s csv: %w", p.Name, df.Err)
	}
	return fromDataFrame(df, p)
}

func columnTypes(p Profile) map[string]series.Type {
	types := make(map[string]series.Type)
	for _, c := range p.Text {
		types[c] = series.String
	}
	for _, c := range p.Dates {
		types[c] = series.String
	}
	for _, c := range p.Minutes {
		types[c] = series.String
	}
	for _, c := range p.Numeric {
		types[c] = series.Float
	}
	return types
}

func fromDataFrame(df dataframe.DataFrame, p Profile) (*boxscore.Table, error) {
	minutes := toSet(p.Minutes)
	dates := toSet(p.Dates)

	t := boxscore.NewTable(df.Nrow())
	for _, name := range df.Names() {
		col := df.Col(name)
		var err error
		switch {
		case minutes[name]:
			err = setMinutes(t, name, col)
		case dates[name]:
			err = setDates(t, name, col)
		case col.Type() == series.Float || col.Type() == series.Int:
			err = t.SetNumeric(name, numericValues(col))
		default:
			err = t.SetText(name, textValues(col))
		}
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func numericValues(col series.Series) []boxscore.Value {
	out := make([]boxscore.Value, col.Len())
	for i := range out {
		e := col.Elem(i)
		if e.IsNA() {
			continue
		}
		out[i] = boxscore.Of(e.Float())
	}
	return out
}

func textValues(col series.Series) []string {
	out := make([]string, col.Len())
	for i := range out {
		if e := col.Elem(i); !e.IsNA() {
			out[i] = e.String()
		}
	}
	return out
}

func setMinutes(t *boxscore.Table, name string, col series.Series) error {
	out := make([]boxscore.Value, col.Len())
	for i := range out {
		raw := ""
		if e := col.Elem(i); !e.IsNA() {
			raw = e.String()
		}
		m, err := ParseMinutes(raw)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", name, i+1, err)
		}
		out[i] = boxscore.Of(m)
	}
	return t.SetNumeric(name, out)
}

func setDates(t *boxscore.Table, name string, col series.Series) error {
	out := make([]string, col.Len())
	for i := range out {
		e := col.Elem(i)
		if e.IsNA() {
			continue
		}
		parsed, err := timeutil.ParseDate(strings.TrimSpace(e.String()))
		if err != nil {
			return fmt.Errorf("%w: %s row %d: %q", ErrInvalidDate, name, i+1, e.String())
		}
		out[i] = timeutil.FormatDate(parsed)
	}
	return t.SetText(name, out)
}

// ParseMinutes converts "MM:SS" to minutes + seconds/60 and passes decimal
// minutes through. Blank and NA cells are 0.
func ParseMinutes(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") || raw == "NA" {
		return 0, nil
	}
	mm, ss, hasColon := strings.Cut(raw, ":")
	minutes, err := strconv.ParseFloat(mm, 64)
	if err != nil || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMinutes, raw)
	}
	if !hasColon {
		return minutes, nil
	}
	seconds, err := strconv.ParseFloat(ss, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMinutes, raw)
	}
	return minutes + seconds/60, nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
