package dataset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
)

// ErrUnknownDataset is returned for a dataset name with no profile.
var ErrUnknownDataset = errors.New("unknown dataset")

// TestRowLimit caps the rows read when loading in test mode.
const TestRowLimit = 10000

// Dataset names.
const (
	GamesDetails = "games_details"
	Ranking      = "ranking"
	Games        = "games"
)

// Profile is the static parsing configuration of one CSV dataset.
type Profile struct {
	Name string
	// Text columns are kept as strings even when they look numeric.
	Text []string
	// Numeric columns are parsed as floats; blanks become missing.
	Numeric []string
	// Dates are parsed with timeutil.DateLayout and kept as normalized text.
	Dates []string
	// Minutes columns accept "MM:SS" or decimal minutes; blanks become 0.
	Minutes []string
	// Drop lists columns removed by Preprocess.
	Drop []string
}

var profiles = map[string]Profile{
	GamesDetails: {
		Name: GamesDetails,
		Text: []string{
			boxscore.ColGameID, boxscore.ColTeam, boxscore.ColPlayerID, boxscore.ColPlayerName,
			boxscore.ColStartPosition, "NICKNAME", "COMMENT", "TEAM_ID", "TEAM_ABBREVIATION", "TEAM_CITY",
		},
		Numeric: numericStats(),
		Minutes: []string{boxscore.ColMinutes},
		Drop:    []string{"TEAM_ABBREVIATION", "TEAM_CITY", "NICKNAME"},
	},
	Ranking: {
		Name:  Ranking,
		Text:  []string{"SEASON_ID", "TEAM_ID", "LEAGUE_ID", "TEAM", "CONFERENCE", "HOME_RECORD", "ROAD_RECORD"},
		Dates: []string{"STANDINGSDATE"},
	},
	Games: {
		Name:  Games,
		Text:  []string{boxscore.ColGameID, "GAME_STATUS_TEXT", "HOME_TEAM_ID", "VISITOR_TEAM_ID", "TEAM_ID_home", "TEAM_ID_away"},
		Dates: []string{"GAME_DATE_EST"},
	},
}

func numericStats() []string {
	out := []string{"FG_PCT", "FG3_PCT", "FT_PCT", "DREB", "REB", "STL", "BLK", "PF", "PLUS_MINUS"}
	for _, c := range boxscore.NumericColumns {
		if c != boxscore.ColMinutes {
			out = append(out, c)
		}
	}
	return out
}

// LookupProfile returns the profile registered under name.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}
	return p, nil
}

// Names lists the known dataset names, sorted.
func Names() []string {
	out := make([]string, 0, len(profiles))
	for name := range profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
