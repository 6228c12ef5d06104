package world

import "fmt"

// RiverSegment is one edge of a river. Segments form a singly linked chain
// from the source to the mouth or lake.
//
// Down and Elevation record the downhill hex of the edge and its elevation
// when the river was traced. Craters and volcanoes reshape the terrain
// afterwards, so the live edge slope may no longer match.
type RiverSegment struct {
	Coord     HexCoord      `json:"coord"`
	Side      Side          `json:"side"`
	Source    bool          `json:"source"`
	Down      int           `json:"down"`
	Elevation int           `json:"elevation"`
	Next      *RiverSegment `json:"-"`
}

// Len counts the segments from s to the end of the chain.
func (s *RiverSegment) Len() int {
	n := 0
	for seg := s; seg != nil; seg = seg.Next {
		n++
	}
	return n
}

// Segments returns the chain starting at s as a slice.
func (s *RiverSegment) Segments() []*RiverSegment {
	var out []*RiverSegment
	for seg := s; seg != nil; seg = seg.Next {
		out = append(out, seg)
	}
	return out
}

// segmentEdge returns the edge a segment runs along.
func (m *Map) segmentEdge(s *RiverSegment) Edge {
	return m.Hexes[m.Index(s.Coord.Row, s.Coord.Col)].Edges[s.Side]
}

// RiverEdges returns the edges of a river in flow order.
func (m *Map) RiverEdges(source *RiverSegment) []Edge {
	var out []Edge
	for seg := source; seg != nil; seg = seg.Next {
		out = append(out, m.segmentEdge(seg))
	}
	return out
}

// RiversAt returns the sides of the hex at (row, col) that carry a river segment.
func (m *Map) RiversAt(row, col int) ([]Side, error) {
	if !m.InBounds(row, col) {
		return nil, fmt.Errorf("rivers at %d,%d: %w", row, col, ErrOutOfBounds)
	}
	sides := []Side{}
	for _, src := range m.Rivers {
		for seg := src; seg != nil; seg = seg.Next {
			if seg.Coord.Row == row && seg.Coord.Col == col {
				sides = append(sides, seg.Side)
			}
		}
	}
	return sides, nil
}

// markRiverEdges flags every edge of a kept river and the same boundary as
// seen from the neighbor.
func (m *Map) markRiverEdges() {
	for i := range m.Hexes {
		for s := range m.Hexes[i].Edges {
			m.Hexes[i].Edges[s].River = false
		}
	}
	for _, src := range m.Rivers {
		for seg := src; seg != nil; seg = seg.Next {
			i := m.Index(seg.Coord.Row, seg.Coord.Col)
			m.Hexes[i].Edges[seg.Side].River = true
			n := m.neighbors[i][seg.Side]
			if back, ok := m.SideToward(n, i); ok {
				m.Hexes[n].Edges[back].River = true
			}
		}
	}
}
