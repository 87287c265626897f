package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ETTyler/Arb-Finder/internal/alerts"
	"github.com/ETTyler/Arb-Finder/internal/arb"
	"github.com/ETTyler/Arb-Finder/internal/config"
	"github.com/ETTyler/Arb-Finder/internal/journal"
	"github.com/ETTyler/Arb-Finder/internal/oddsapi"
)

// Source supplies raw match data. Satisfied by oddsapi.Client; tests
// substitute a fixture-backed implementation.
type Source interface {
	Sports(ctx context.Context) ([]string, error)
	Odds(ctx context.Context, sport, region, market string) ([]oddsapi.Match, error)
}

// Scanner walks every sport the source offers, normalizes the quotes,
// detects mispriced matches, and allocates stakes for each hit.
type Scanner struct {
	source   Source
	notifier *alerts.Notifier
	db       *journal.DB // may be nil
	cfg      config.Config

	mu       sync.RWMutex
	latest   []arb.Opportunity
	lastScan time.Time
}

// New creates a Scanner. db may be nil to disable journaling.
func New(source Source, notifier *alerts.Notifier, db *journal.DB, cfg config.Config) *Scanner {
	return &Scanner{
		source:   source,
		notifier: notifier,
		db:       db,
		cfg:      cfg,
	}
}

// Scan performs a single scan cycle across all sports and returns the
// opportunities found.
//
// Authentication and rate-limit failures abort the scan; any other
// per-sport fetch error is reported and that sport skipped. Malformed
// match data is a hard failure and also aborts.
func (s *Scanner) Scan(ctx context.Context) ([]arb.Opportunity, error) {
	sports, err := s.source.Sports(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching sports: %w", err)
	}

	slog.Info("Scanning for arbitrage opportunities", "sports", len(sports))

	scanID := uuid.New().String()
	var opps []arb.Opportunity
	matchCount := 0

	for _, sport := range sports {
		raw, err := s.source.Odds(ctx, sport, s.cfg.Region, s.cfg.Market)
		if err != nil {
			if oddsapi.IsAuthError(err) || oddsapi.IsRateLimitError(err) {
				return nil, fmt.Errorf("fetching odds for %s: %w", sport, err)
			}
			s.notifier.LogError("fetching odds for "+sport, err)
			continue
		}

		matches, err := arb.Normalize(raw, s.cfg.IncludeStarted, time.Now())
		if err != nil {
			return nil, fmt.Errorf("normalizing %s: %w", sport, err)
		}
		matchCount += len(matches)

		for _, m := range matches {
			if !arb.IsArbitrage(m.TotalImplied, s.cfg.Cutoff) {
				continue
			}

			opp := arb.Opportunity{
				Match:        m,
				HoursToStart: arb.HoursToStart(m.CommenceTime, time.Now()),
				Allocation:   arb.AllocateStakes(m.BestOdds, s.cfg.TotalStake),
			}
			opps = append(opps, opp)

			s.notifier.AlertOpportunity(opp)

			if s.db != nil {
				if _, err := s.db.Record(scanID, opp); err != nil {
					s.notifier.LogError("journaling opportunity", err)
				}
			}
		}
	}

	s.mu.Lock()
	s.latest = opps
	s.lastScan = time.Now()
	s.mu.Unlock()

	s.notifier.LogScan(len(sports), matchCount, len(opps))
	return opps, nil
}

// Run repeats Scan on the configured interval until ctx is cancelled.
// Scan errors are reported and the loop keeps going; the next tick may
// find the API recovered.
func (s *Scanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(10 * time.Minute)
	defer cleanupTicker.Stop()

	slog.Info("Starting scan loop", "interval", s.cfg.ScanInterval)

	// First scan immediately rather than waiting a full interval.
	if _, err := s.Scan(ctx); err != nil {
		s.notifier.LogError("scan", err)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scanner stopped gracefully")
			return

		case <-cleanupTicker.C:
			s.notifier.CleanupOldAlerts()

		case <-ticker.C:
			if _, err := s.Scan(ctx); err != nil {
				s.notifier.LogError("scan", err)
			}
		}
	}
}

// Latest returns the results of the most recent completed scan.
func (s *Scanner) Latest() ([]arb.Opportunity, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.lastScan
}
