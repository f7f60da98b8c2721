package core

import (
	"fmt"
	"strings"
)

// Direction is a logical movement direction relative to the camera basis.
type Direction int

const (
	Forward Direction = iota
	Back
	Left
	Right
	Up
	Down
)

// Directions lists every movement direction in declaration order.
var Directions = [...]Direction{Forward, Back, Left, Right, Up, Down}

var directionNames = map[Direction]string{
	Forward: "forward",
	Back:    "back",
	Left:    "left",
	Right:   "right",
	Up:      "up",
	Down:    "down",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts the lower-case names produced by String, ignoring case
// and surrounding whitespace. "backward" is accepted as an alias of "back".
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "backward" {
		return Back, nil
	}
	for d, n := range directionNames {
		if n == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}
