package arb

import "time"

// BestOdds is the best price found for one outcome across every
// bookmaker quoting it, with the book that offered it.
type BestOdds struct {
	Outcome   string  `json:"outcome"`
	Bookmaker string  `json:"bookmaker"`
	Price     float64 `json:"price"`
}

// Match is a normalized match: the best available price per outcome
// plus the summed implied probability of those prices.
//
// BestOdds preserves first-seen outcome order from the raw quotes, so
// downstream tie-breaks are deterministic for a given input sequence.
type Match struct {
	Name         string     `json:"match_name"`
	League       string     `json:"league"`
	CommenceTime time.Time  `json:"match_start_time"`
	BestOdds     []BestOdds `json:"best_odds"`
	TotalImplied float64    `json:"total_implied_odds"`
}

// Stake is the allocation for a single outcome: how much to place at
// which bookmaker, and the overall profit if that outcome occurs.
type Stake struct {
	Outcome   string  `json:"outcome"`
	Bookmaker string  `json:"bookmaker"`
	Price     float64 `json:"price"`
	Stake     int     `json:"stake"`
	Profit    float64 `json:"profit"`
}

// Allocation is a full integer stake split across a match's outcomes.
// The stakes always sum exactly to TotalStake.
type Allocation struct {
	TotalStake int     `json:"total_stake"`
	Stakes     []Stake `json:"stakes"`
}

// MinProfit returns the worst-case profit across outcomes.
func (a Allocation) MinProfit() float64 {
	if len(a.Stakes) == 0 {
		return 0
	}
	min := a.Stakes[0].Profit
	for _, s := range a.Stakes[1:] {
		if s.Profit < min {
			min = s.Profit
		}
	}
	return min
}

// MaxProfit returns the best-case profit across outcomes.
func (a Allocation) MaxProfit() float64 {
	if len(a.Stakes) == 0 {
		return 0
	}
	max := a.Stakes[0].Profit
	for _, s := range a.Stakes[1:] {
		if s.Profit > max {
			max = s.Profit
		}
	}
	return max
}

// Opportunity is a match that cleared the arbitrage cutoff, with its
// stake allocation and a snapshot of the hours until kick-off. The
// snapshot is taken when the match is evaluated and never updated.
type Opportunity struct {
	Match
	HoursToStart float64    `json:"hours_to_start"`
	Allocation   Allocation `json:"allocation"`
}
