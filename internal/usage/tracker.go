// Package usage tracks per-user activity for the bot: a cooldown gate that
// throttles how often a user's messages are relayed, and lightweight usage
// statistics behind the /stats command. All state lives in memory and is
// gone on restart.
package usage

import (
	"context"
	"sync"
	"time"
)

// Record holds everything the tracker knows about one user.
type Record struct {
	UserID       string
	DisplayName  string
	FirstSeen    time.Time
	LastSeen     time.Time
	MessageCount int64
}

// Config controls a Tracker.
type Config struct {
	// Cooldown is the minimum gap between accepted messages per user.
	// Zero accepts everything.
	Cooldown time.Duration
	// StatsEnabled turns RecordInteraction and Stats into no-ops when false.
	StatsEnabled bool
	// Retention drops users idle longer than this; zero keeps them forever.
	Retention time.Duration
}

// Tracker enforces the per-user cooldown and keeps usage statistics. The two
// concerns are separate on purpose: TryAccept touches only cooldown state and
// RecordInteraction touches only statistics, so rejected messages still count
// as seen.
//
// Callers pass now explicitly, which keeps the tracker off the wall clock and
// makes the cooldown math testable.
type Tracker struct {
	cooldown     time.Duration
	statsEnabled bool
	retention    time.Duration

	mu       sync.Mutex
	accepted map[string]time.Time
	records  map[string]*Record
}

func New(cfg Config) *Tracker {
	return &Tracker{
		cooldown:     cfg.Cooldown,
		statsEnabled: cfg.StatsEnabled,
		retention:    cfg.Retention,
		accepted:     make(map[string]time.Time),
		records:      make(map[string]*Record),
	}
}

// TryAccept reports whether a message from userID at now clears the cooldown.
// The accepted timestamp is stored only on acceptance; a rejected message
// leaves the user's window untouched, so hammering the bot does not push the
// next accepted message further out.
func (t *Tracker) TryAccept(userID string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.accepted[userID]; ok && now.Sub(last) < t.cooldown {
		return false
	}
	t.accepted[userID] = now
	return true
}

// RecordInteraction notes one message or command from userID. The record is
// created on first contact and FirstSeen never moves afterwards. A non-empty
// displayName overwrites the stored one; an empty one is ignored. No-op when
// statistics are disabled.
func (t *Tracker) RecordInteraction(userID, displayName string, now time.Time) {
	if !t.statsEnabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[userID]
	if !ok {
		rec = &Record{UserID: userID, FirstSeen: now}
		t.records[userID] = rec
	}
	rec.LastSeen = now
	rec.MessageCount++
	if displayName != "" {
		rec.DisplayName = displayName
	}
}

// Stats returns a copy of userID's record. The second return is false when
// the user has never been recorded or statistics are disabled. Stats never
// creates a record.
func (t *Tracker) Stats(userID string) (Record, bool) {
	if !t.statsEnabled {
		return Record{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[userID]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Users returns the number of tracked records.
func (t *Tracker) Users() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Prune drops records whose last activity is before cutoff, along with
// cooldown entries that no longer have a record. Returns the number of
// records removed.
func (t *Tracker) Prune(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, rec := range t.records {
		if rec.LastSeen.Before(cutoff) {
			delete(t.records, id)
			removed++
		}
	}
	for id, last := range t.accepted {
		if _, tracked := t.records[id]; !tracked && last.Before(cutoff) {
			delete(t.accepted, id)
		}
	}
	return removed
}

// RunJanitor prunes idle users on a ticker until ctx is done. Returns
// immediately when no retention is configured.
func (t *Tracker) RunJanitor(ctx context.Context) {
	if t.retention <= 0 {
		return
	}

	interval := min(max(t.retention/4, time.Minute), time.Hour)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.Prune(now.Add(-t.retention))
		}
	}
}
