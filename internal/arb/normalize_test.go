package arb

import (
	"math"
	"testing"
	"time"

	"github.com/ETTyler/Arb-Finder/internal/oddsapi"
)

func h2h(outcomes ...oddsapi.Outcome) []oddsapi.Market {
	return []oddsapi.Market{{Key: "h2h", Outcomes: outcomes}}
}

func rawMatch(home, away string, start time.Time, books ...oddsapi.Bookmaker) oddsapi.Match {
	return oddsapi.Match{
		ID:           "evt-" + home,
		SportKey:     "soccer_epl",
		CommenceTime: start.Unix(),
		HomeTeam:     home,
		AwayTeam:     away,
		Bookmakers:   books,
	}
}

func TestNormalizeBestPriceSelection(t *testing.T) {
	now := time.Now()
	start := now.Add(4 * time.Hour)

	raw := rawMatch("Arsenal", "Spurs", start,
		oddsapi.Bookmaker{Title: "Book1", Markets: h2h(
			oddsapi.Outcome{Name: "Arsenal", Price: 2.10},
			oddsapi.Outcome{Name: "Spurs", Price: 2.05},
		)},
		oddsapi.Bookmaker{Title: "Book2", Markets: h2h(
			oddsapi.Outcome{Name: "Arsenal", Price: 2.00},
			oddsapi.Outcome{Name: "Spurs", Price: 2.20},
		)},
	)

	matches, err := Normalize([]oddsapi.Match{raw}, true, now)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	m := matches[0]
	if m.Name != "Arsenal v. Spurs" {
		t.Errorf("Name = %q, want %q", m.Name, "Arsenal v. Spurs")
	}
	if m.League != "soccer_epl" {
		t.Errorf("League = %q, want soccer_epl", m.League)
	}

	want := []BestOdds{
		{Outcome: "Arsenal", Bookmaker: "Book1", Price: 2.10},
		{Outcome: "Spurs", Bookmaker: "Book2", Price: 2.20},
	}
	if len(m.BestOdds) != len(want) {
		t.Fatalf("got %d outcomes, want %d", len(m.BestOdds), len(want))
	}
	for i := range want {
		if m.BestOdds[i] != want[i] {
			t.Errorf("BestOdds[%d] = %+v, want %+v", i, m.BestOdds[i], want[i])
		}
	}

	wantImplied := 1/2.10 + 1/2.20
	if math.Abs(m.TotalImplied-wantImplied) > 1e-12 {
		t.Errorf("TotalImplied = %v, want %v", m.TotalImplied, wantImplied)
	}
}

func TestNormalizeFirstWinsOnTie(t *testing.T) {
	now := time.Now()
	raw := rawMatch("Leeds", "Hull", now.Add(time.Hour),
		oddsapi.Bookmaker{Title: "Book1", Markets: h2h(
			oddsapi.Outcome{Name: "Leeds", Price: 2.0},
			oddsapi.Outcome{Name: "Hull", Price: 2.0},
		)},
		oddsapi.Bookmaker{Title: "Book2", Markets: h2h(
			oddsapi.Outcome{Name: "Leeds", Price: 2.0},
			oddsapi.Outcome{Name: "Hull", Price: 2.0},
		)},
	)

	matches, err := Normalize([]oddsapi.Match{raw}, true, now)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	for _, b := range matches[0].BestOdds {
		if b.Bookmaker != "Book1" {
			t.Errorf("outcome %s held by %s, want the first book seen", b.Outcome, b.Bookmaker)
		}
	}
}

func TestNormalizeSkipsStartedMatches(t *testing.T) {
	now := time.Now()
	books := []oddsapi.Bookmaker{
		{Title: "Book1", Markets: h2h(
			oddsapi.Outcome{Name: "Home", Price: 2.1},
			oddsapi.Outcome{Name: "Away", Price: 2.2},
		)},
	}
	started := rawMatch("Home", "Away", now.Add(-time.Hour), books...)

	matches, err := Normalize([]oddsapi.Match{started}, false, now)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("started match included with includeStarted=false")
	}

	matches, err = Normalize([]oddsapi.Match{started}, true, now)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("started match excluded with includeStarted=true")
	}
}

func TestNormalizeSkipsSingleOutcome(t *testing.T) {
	now := time.Now()
	raw := rawMatch("Home", "Away", now.Add(time.Hour),
		oddsapi.Bookmaker{Title: "Book1", Markets: h2h(
			oddsapi.Outcome{Name: "Home", Price: 1.5},
		)},
	)

	matches, err := Normalize([]oddsapi.Match{raw}, true, now)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("match with one outcome should be skipped")
	}
}

func TestNormalizeTolerantOfEmptyBooks(t *testing.T) {
	now := time.Now()
	raw := rawMatch("Home", "Away", now.Add(time.Hour),
		oddsapi.Bookmaker{Title: "NoMarkets"},
		oddsapi.Bookmaker{Title: "EmptyMarket", Markets: h2h()},
		oddsapi.Bookmaker{Title: "Book1", Markets: h2h(
			oddsapi.Outcome{Name: "Home", Price: 2.1},
			oddsapi.Outcome{Name: "Away", Price: 2.2},
		)},
	)

	matches, err := Normalize([]oddsapi.Match{raw}, true, now)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if len(matches[0].BestOdds) != 2 {
		t.Errorf("got %d outcomes, want 2", len(matches[0].BestOdds))
	}
}

func TestNormalizeMalformedMatch(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		raw  oddsapi.Match
	}{
		{
			name: "missing home team",
			raw: oddsapi.Match{
				ID:           "evt-1",
				AwayTeam:     "Away",
				CommenceTime: now.Add(time.Hour).Unix(),
			},
		},
		{
			name: "missing commence time",
			raw: oddsapi.Match{
				ID:       "evt-2",
				HomeTeam: "Home",
				AwayTeam: "Away",
			},
		},
		{
			name: "unnamed outcome",
			raw: rawMatch("Home", "Away", now.Add(time.Hour),
				oddsapi.Bookmaker{Title: "Book1", Markets: h2h(
					oddsapi.Outcome{Name: "", Price: 2.0},
					oddsapi.Outcome{Name: "Away", Price: 2.0},
				)},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize([]oddsapi.Match{tt.raw}, true, now); err == nil {
				t.Error("expected error for malformed match")
			}
		})
	}
}
