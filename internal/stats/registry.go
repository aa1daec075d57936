package stats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
)

// ErrUnknownMetric marks a requested metric name that has no formula.
var ErrUnknownMetric = errors.New("unknown metric")

// Kind describes how a metric's values are post-processed.
type Kind int

const (
	// KindPercentage values are clamped to [0, 100].
	KindPercentage Kind = iota
	// KindRatio values are not clamped.
	KindRatio
	// KindCount values are estimated counts, not clamped.
	KindCount
)

// Formula computes one derived column aligned row-for-row with the table.
// Missing or degenerate inputs produce boxscore.Null cells; only an absent
// input column is an error.
type Formula func(t *boxscore.Table) ([]boxscore.Value, error)

// Metric is one registered derived column.
type Metric struct {
	Name      string
	Kind      Kind
	NeedsTeam bool
	Compute   Formula
}

// Derived metric names.
const (
	MetricFGPct  = "FG%"
	Metric3PPct  = "3P%"
	MetricFTPct  = "FT%"
	MetricEFGPct = "eFG%"
	MetricTSPct  = "TS%"
	MetricUSGPct = "USG%"
	MetricTOPct  = "TO%"
	MetricASTPct = "AST%"
	MetricPPP    = "PPP"
	MetricPOSS   = "POSS"
)

// registry is declaration-ordered; it defines the default computation order.
var registry = []Metric{
	{Name: MetricFGPct, Kind: KindPercentage, Compute: FieldGoalPct},
	{Name: Metric3PPct, Kind: KindPercentage, Compute: ThreePointPct},
	{Name: MetricFTPct, Kind: KindPercentage, Compute: FreeThrowPct},
	{Name: MetricEFGPct, Kind: KindPercentage, Compute: EffectiveFieldGoalPct},
	{Name: MetricTSPct, Kind: KindPercentage, Compute: TrueShootingPct},
	{Name: MetricUSGPct, Kind: KindPercentage, NeedsTeam: true, Compute: UsagePct},
	{Name: MetricTOPct, Kind: KindPercentage, Compute: TurnoverPct},
	{Name: MetricASTPct, Kind: KindPercentage, NeedsTeam: true, Compute: AssistPct},
	{Name: MetricPPP, Kind: KindRatio, Compute: PointsPerPossession},
	{Name: MetricPOSS, Kind: KindCount, Compute: PlayerPossessions},
}

var byName = func() map[string]Metric {
	m := make(map[string]Metric, len(registry))
	for _, metric := range registry {
		m[metric.Name] = metric
	}
	return m
}()

// Available returns the supported metric names in declaration order.
func Available() []string {
	names := make([]string, len(registry))
	for i, m := range registry {
		names[i] = m.Name
	}
	return names
}

// Lookup returns the metric registered under name.
func Lookup(name string) (Metric, bool) {
	m, ok := byName[name]
	return m, ok
}

// Percentages returns the names of percentage-valued metrics in declaration order.
func Percentages() []string {
	var names []string
	for _, m := range registry {
		if m.Kind == KindPercentage {
			names = append(names, m.Name)
		}
	}
	return names
}

// NeedsTeam reports whether any of the named metrics requires team aggregates.
func NeedsTeam(names []string) bool {
	for _, n := range names {
		if m, ok := byName[n]; ok && m.NeedsTeam {
			return true
		}
	}
	return false
}

// Validate returns an error wrapping ErrUnknownMetric that names every
// unregistered entry in names.
func Validate(names []string) error {
	var unknown []string
	for _, n := range names {
		if _, ok := byName[n]; !ok {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownMetric, strings.Join(unknown, ", "))
}
