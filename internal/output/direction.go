package output

import (
	"fmt"
	"strings"
)

// HistoryDirection is the direction in which history grows in the drawing.
type HistoryDirection string

const (
	DirectionUnset      HistoryDirection = ""
	DirectionDownwards  HistoryDirection = "downwards"
	DirectionLeftwards  HistoryDirection = "leftwards"
	DirectionRightwards HistoryDirection = "rightwards"
	DirectionUpwards    HistoryDirection = "upwards"
)

// Edges point from child to parent, so every rank direction is the mirror of
// the reading direction.
var rankdirOf = map[HistoryDirection]string{
	DirectionDownwards:  "BT",
	DirectionLeftwards:  "LR",
	DirectionRightwards: "RL",
	DirectionUpwards:    "TB",
}

// HistoryDirections lists the accepted direction names.
func HistoryDirections() []string {
	return []string{
		string(DirectionDownwards),
		string(DirectionLeftwards),
		string(DirectionRightwards),
		string(DirectionUpwards),
	}
}

// ParseHistoryDirection parses a direction name. The empty string yields
// DirectionUnset.
func ParseHistoryDirection(s string) (HistoryDirection, error) {
	d := HistoryDirection(strings.ToLower(strings.TrimSpace(s)))
	if d == DirectionUnset {
		return d, nil
	}
	if _, ok := rankdirOf[d]; !ok {
		return DirectionUnset, fmt.Errorf("invalid history direction %q (valid: %s)", s, strings.Join(HistoryDirections(), ", "))
	}
	return d, nil
}

// Rankdir returns the graphviz rankdir for d, or "" when d is unset.
func (d HistoryDirection) Rankdir() string {
	return rankdirOf[d]
}
