package sim

import "sort"

// pointsTable awards championship points by finishing position, top ten only.
var pointsTable = []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// PointsForPosition returns the championship points for a 1-based finishing
// position. Positions outside the table score zero.
func PointsForPosition(pos int) int {
	if pos < 1 || pos > len(pointsTable) {
		return 0
	}
	return pointsTable[pos-1]
}

// PrizeForPosition returns the prize money for a finishing position in a
// given tier. Prizes halve per tier below the top.
func PrizeForPosition(tier, pos int) int64 {
	base := int64(0)
	switch {
	case pos == 1:
		base = 200_000
	case pos == 2:
		base = 120_000
	case pos == 3:
		base = 80_000
	case pos <= 6:
		base = 40_000
	case pos <= 10:
		base = 20_000
	default:
		base = 5_000 // appearance money
	}
	for t := 1; t < tier; t++ {
		base /= 2
	}
	return base
}

// Standings is a league championship table keyed by organization ID.
type Standings struct {
	points map[string]int
	order  []string // insertion order, the tie-break for equal points
}

// NewStandings creates an empty championship table with a fixed entrant order.
func NewStandings(orgIDs []string) *Standings {
	s := &Standings{points: make(map[string]int, len(orgIDs))}
	for _, id := range orgIDs {
		s.points[id] = 0
		s.order = append(s.order, id)
	}
	return s
}

// Award adds championship points for an organization.
func (s *Standings) Award(orgID string, points int) {
	if _, ok := s.points[orgID]; !ok {
		s.order = append(s.order, orgID)
	}
	s.points[orgID] += points
}

// Points returns the current points for an organization.
func (s *Standings) Points(orgID string) int { return s.points[orgID] }

// Table returns organization IDs ordered by points descending, entrant order
// breaking ties. Deterministic for a fixed entrant list.
func (s *Standings) Table() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	rank := make(map[string]int, len(s.order))
	for i, id := range s.order {
		rank[id] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		if s.points[out[i]] != s.points[out[j]] {
			return s.points[out[i]] > s.points[out[j]]
		}
		return rank[out[i]] < rank[out[j]]
	})
	return out
}

// PositionOf returns the 1-based championship position of an organization,
// or len(table)+1 if it is not in the table.
func (s *Standings) PositionOf(orgID string) int {
	for i, id := range s.Table() {
		if id == orgID {
			return i + 1
		}
	}
	return len(s.order) + 1
}

// Reset zeroes all points for a new season, keeping the entrant order.
func (s *Standings) Reset() {
	for id := range s.points {
		s.points[id] = 0
	}
}
