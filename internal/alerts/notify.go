package alerts

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ETTyler/Arb-Finder/internal/arb"
)

// Notifier prints detected opportunities to the console, suppressing
// repeats of the same match within the cooldown window.
type Notifier struct {
	mu         sync.Mutex
	lastAlerts map[string]time.Time
	cooldown   time.Duration
	currency   string
}

// NewNotifier creates a new notifier.
func NewNotifier(cooldown time.Duration, currency string) *Notifier {
	return &Notifier{
		lastAlerts: make(map[string]time.Time),
		cooldown:   cooldown,
		currency:   currencySymbol(currency),
	}
}

// checkCooldown records the alert and reports whether it should be
// suppressed because the same key fired within the cooldown.
func (n *Notifier) checkCooldown(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if lastTime, ok := n.lastAlerts[key]; ok {
		if time.Since(lastTime) < n.cooldown {
			return true
		}
	}
	n.lastAlerts[key] = time.Now()
	return false
}

// AlertOpportunity prints a full breakdown of an arbitrage opportunity:
// the match, the best price per outcome, the stake split, and the
// profit range.
func (n *Notifier) AlertOpportunity(opp arb.Opportunity) {
	key := opp.Name + "|" + opp.League

	if n.checkCooldown(key) {
		return
	}

	log.Printf("ARB: %s (%s) | starts in %.2fh | implied odds %.4f",
		opp.Name, opp.League, opp.HoursToStart, opp.TotalImplied)

	for _, s := range opp.Allocation.Stakes {
		log.Printf("  -> %s: %s @ %.2f | stake %s%d | profit %s%.2f",
			s.Outcome, s.Bookmaker, s.Price, n.currency, s.Stake, n.currency, s.Profit)
	}

	log.Printf("  profit range %s%.2f to %s%.2f",
		n.currency, opp.Allocation.MinProfit(), n.currency, opp.Allocation.MaxProfit())
}

// LogScan logs a scan completion.
func (n *Notifier) LogScan(sports, matches, opps int) {
	log.Printf("Scan complete: %d sports, %d matches, %d opportunities", sports, matches, opps)
}

// LogError logs an error.
func (n *Notifier) LogError(context string, err error) {
	log.Printf("ERROR [%s]: %v", context, err)
}

// LogStartup logs scanner startup.
func (n *Notifier) LogStartup(config string) {
	log.Printf("Scanner started |%s", config)
}

// CleanupOldAlerts removes stale alert records.
func (n *Notifier) CleanupOldAlerts() {
	n.mu.Lock()
	defer n.mu.Unlock()
	cutoff := time.Now().Add(-1 * time.Hour)
	for key, t := range n.lastAlerts {
		if t.Before(cutoff) {
			delete(n.lastAlerts, key)
		}
	}
}

func currencySymbol(code string) string {
	switch strings.ToUpper(code) {
	case "GBP":
		return "£"
	case "USD":
		return "$"
	case "EUR":
		return "€"
	default:
		return code + " "
	}
}
