package world

// Edge is the boundary between a hex and its neighbor on one side.
// One is the hex that computed the edge and Two the hex across it. Up and
// Down are the two hexes touching the edge's endpoints; water on the edge
// flows toward Down. All four are indices into Map.Hexes.
type Edge struct {
	Side  Side
	One   int
	Two   int
	Up    int
	Down  int
	Delta int
	River bool
}

// Equal reports whether both edges describe the same boundary, whichever hex
// computed them.
func (e Edge) Equal(o Edge) bool {
	if e.One == o.One && e.Two == o.Two {
		return true
	}
	return e.One == o.Two && e.Two == o.One
}

// boundaryKey identifies the boundary independently of which side produced it.
type boundaryKey struct {
	a, b int
}

func (e Edge) key() boundaryKey {
	if e.One < e.Two {
		return boundaryKey{e.One, e.Two}
	}
	return boundaryKey{e.Two, e.One}
}

// flanks returns the two neighbors touching the endpoints of the edge on side s.
func flanks(s Side) (Side, Side) {
	switch s {
	case SideEast:
		return SideNorthEast, SideSouthEast
	case SideWest:
		return SideNorthWest, SideSouthWest
	case SideNorthEast:
		return SideNorthWest, SideEast
	case SideSouthEast:
		return SideSouthWest, SideEast
	case SideNorthWest:
		return SideNorthEast, SideWest
	default: // SideSouthWest
		return SideSouthEast, SideWest
	}
}
