package damage

import "sort"

// sidePot is one layer of the hand's pot. Eligible seats contributed the
// full layer and never folded.
type sidePot struct {
	amount   int64
	eligible []int // sorted seats
}

// buildSidePots layers the hand's cumulative contributions by all-in level.
// Levels are the distinct contribution totals of all-in players plus the
// overall maximum; every chip lands in exactly one pot. Adjacent pots with
// identical eligible sets are merged.
func buildSidePots(players []*Player) []sidePot {
	contributed := make([]*Player, 0, len(players))
	maxContrib := int64(0)
	for _, p := range players {
		if p.handContrib > 0 {
			contributed = append(contributed, p)
			if p.handContrib > maxContrib {
				maxContrib = p.handContrib
			}
		}
	}
	if len(contributed) == 0 {
		return nil
	}

	levelSet := map[int64]bool{maxContrib: true}
	for _, p := range contributed {
		if p.allIn && p.inHand {
			levelSet[p.handContrib] = true
		}
	}
	levels := make([]int64, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	pots := make([]sidePot, 0, len(levels))
	prev := int64(0)
	for _, level := range levels {
		layer := sidePot{}
		for _, p := range contributed {
			slice := p.handContrib
			if slice > level {
				slice = level
			}
			slice -= prev
			if slice <= 0 {
				continue
			}
			layer.amount += slice
			if p.inHand && p.handContrib >= level {
				layer.eligible = append(layer.eligible, p.Seat)
			}
		}
		prev = level
		if layer.amount == 0 {
			continue
		}
		sort.Ints(layer.eligible)

		if len(pots) > 0 && sameSeats(pots[len(pots)-1].eligible, layer.eligible) {
			pots[len(pots)-1].amount += layer.amount
			continue
		}
		pots = append(pots, layer)
	}
	return pots
}

func sameSeats(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
