package arb

import (
	"fmt"
	"time"

	"github.com/ETTyler/Arb-Finder/internal/oddsapi"
)

// Normalize reduces raw bookmaker quotes to one Match per event, each
// carrying the best price per outcome and the summed implied
// probability of those prices.
//
// Matches are skipped only for business reasons: already started when
// includeStarted is false, or fewer than two quoted outcomes (no
// arbitrage is possible with under two). Malformed input — a missing
// team name, a zero commence time, an empty outcome name — is a hard
// failure, never silently defaulted.
//
// Bookmakers are visited in input order and only a strictly higher
// price replaces the held best, so when books tie the first one seen
// wins. Only each bookmaker's first market is read.
func Normalize(matches []oddsapi.Match, includeStarted bool, now time.Time) ([]Match, error) {
	normalized := make([]Match, 0, len(matches))

	for _, m := range matches {
		if m.HomeTeam == "" || m.AwayTeam == "" {
			return nil, fmt.Errorf("match %s: missing home or away team", m.ID)
		}
		if m.CommenceTime == 0 {
			return nil, fmt.Errorf("match %s v. %s: missing commence time", m.HomeTeam, m.AwayTeam)
		}

		start := time.Unix(m.CommenceTime, 0)
		if !includeStarted && start.Before(now) {
			continue
		}

		best, err := bestOdds(m)
		if err != nil {
			return nil, err
		}
		if len(best) < 2 {
			continue
		}

		totalImplied := 0.0
		for _, b := range best {
			totalImplied += 1 / b.Price
		}

		normalized = append(normalized, Match{
			Name:         fmt.Sprintf("%s v. %s", m.HomeTeam, m.AwayTeam),
			League:       m.SportKey,
			CommenceTime: start,
			BestOdds:     best,
			TotalImplied: totalImplied,
		})
	}

	return normalized, nil
}

// bestOdds folds every bookmaker's first-market quotes into an ordered
// best-price-per-outcome slice. Outcomes keep the order in which they
// were first seen.
func bestOdds(m oddsapi.Match) ([]BestOdds, error) {
	var best []BestOdds
	index := make(map[string]int)

	for _, book := range m.Bookmakers {
		if len(book.Markets) == 0 {
			continue
		}
		for _, outcome := range book.Markets[0].Outcomes {
			if outcome.Name == "" {
				return nil, fmt.Errorf("match %s v. %s: bookmaker %s quoted an unnamed outcome",
					m.HomeTeam, m.AwayTeam, book.Title)
			}
			i, seen := index[outcome.Name]
			if !seen {
				index[outcome.Name] = len(best)
				best = append(best, BestOdds{
					Outcome:   outcome.Name,
					Bookmaker: book.Title,
					Price:     outcome.Price,
				})
				continue
			}
			if outcome.Price > best[i].Price {
				best[i].Bookmaker = book.Title
				best[i].Price = outcome.Price
			}
		}
	}

	return best, nil
}
