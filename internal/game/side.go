package game

// Side tags one of the two fleets sharing the coordinate space.
type Side uint8

const (
	User Side = iota
	Computer
)

var Sides = [...]Side{User, Computer}

func (s Side) String() string {
	switch s {
	case User:
		return "USER"
	case Computer:
		return "COM"
	}
	return "UNKNOWN"
}

func (s Side) Opponent() Side {
	if s == User {
		return Computer
	}
	return User
}
