// Package leaderboard turns a parsed snapshot into renderable rows and
// implements the incremental display, sorting and search over them.
package leaderboard

// Display labels of the projected columns
const (
	LabelRank         = "Rank"
	LabelUsername     = "Username"
	LabelCountry      = "Country"
	LabelRating       = "Rating"
	LabelDivision     = "Division"
	LabelMovingRating = "Moving Rating"
	LabelNoMoveRating = "No Move Rating"
	LabelNMPZRating   = "NMPZ Rating"
)

// Reserved snapshot fields that are read but not displayed
const (
	FieldCurrentTime = "current_time"
	FieldID          = "id"
)

// IdentityColumn is the projection index of the username column
const IdentityColumn = 1

// DefaultPageSize is the number of rows released per page
const DefaultPageSize = 2500

// Column pairs a snapshot field with its display label
type Column struct {
	Key   string
	Label string
}

// DefaultColumns is the fixed projection, in display order
var DefaultColumns = []Column{
	{Key: "positionDuelsLeaderboard", Label: LabelRank},
	{Key: "nick", Label: LabelUsername},
	{Key: "countryCode", Label: LabelCountry},
	{Key: "rating", Label: LabelRating},
	{Key: "divisionName", Label: LabelDivision},
	{Key: "gameModeRatingsStandardduels", Label: LabelMovingRating},
	{Key: "gameModeRatingsNomoveduels", Label: LabelNoMoveRating},
	{Key: "gameModeRatingsNmpzduels", Label: LabelNMPZRating},
}

// Labels returns the display labels of columns in order
func Labels(columns []Column) []string {
	labels := make([]string, len(columns))
	for i, c := range columns {
		labels[i] = c.Label
	}
	return labels
}

// ColumnIndex returns the position of label in columns, or -1
func ColumnIndex(columns []Column, label string) int {
	for i, c := range columns {
		if c.Label == label {
			return i
		}
	}
	return -1
}

// DivisionOrder ranks divisions from lowest to highest
var DivisionOrder = []string{"Gold III", "Gold II", "Gold I", "Master II", "Master I", "Champion"}

// divisionRank returns the position of a division; unknown divisions rank
// below every listed one.
func divisionRank(name string) int {
	for i, d := range DivisionOrder {
		if d == name {
			return i
		}
	}
	return -1
}
