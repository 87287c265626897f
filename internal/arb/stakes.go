package arb

import "sort"

// AllocateStakes splits totalStake into whole-unit stakes across the
// given outcomes using the largest-remainder method: each outcome's
// ideal share is proportional to its implied probability, shares are
// floored, and the leftover units go to the outcomes with the highest
// fractional parts, ties broken by input order. The returned stakes
// always sum exactly to totalStake.
//
// Per-outcome profit is stake*price - totalStake rounded to two
// decimals. Flooring can leave one outcome marginally negative on a
// match that is a true arbitrage in continuous terms; that is reported
// as-is rather than corrected.
//
// Prices must be positive and totalStake must be positive; neither is
// checked here.
func AllocateStakes(odds []BestOdds, totalStake int) Allocation {
	inverse := make([]float64, len(odds))
	totalInverse := 0.0
	for i, o := range odds {
		inverse[i] = 1 / o.Price
		totalInverse += inverse[i]
	}

	ideal := make([]float64, len(odds))
	stakes := make([]int, len(odds))
	allocated := 0
	for i := range odds {
		ideal[i] = inverse[i] / totalInverse * float64(totalStake)
		stakes[i] = int(ideal[i])
		allocated += stakes[i]
	}

	// Flooring leaves 0..len(odds)-1 units unassigned; hand them to the
	// outcomes whose shares lost the most.
	remainder := totalStake - allocated
	if remainder > 0 {
		order := make([]int, len(odds))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			fracA := ideal[order[a]] - float64(stakes[order[a]])
			fracB := ideal[order[b]] - float64(stakes[order[b]])
			return fracA > fracB
		})
		for _, i := range order {
			if remainder <= 0 {
				break
			}
			stakes[i]++
			remainder--
		}
	}

	result := Allocation{
		TotalStake: totalStake,
		Stakes:     make([]Stake, len(odds)),
	}
	for i, o := range odds {
		result.Stakes[i] = Stake{
			Outcome:   o.Outcome,
			Bookmaker: o.Bookmaker,
			Price:     o.Price,
			Stake:     stakes[i],
			Profit:    round2(float64(stakes[i])*o.Price - float64(totalStake)),
		}
	}
	return result
}
