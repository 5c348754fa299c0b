package usage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestTracker() *Tracker {
	return New(Config{Cooldown: 3 * time.Second, StatsEnabled: true})
}

func TestTryAcceptEnforcesCooldown(t *testing.T) {
	tr := newTestTracker()

	require.True(t, tr.TryAccept("user-1", t0), "first message should be accepted")
	assert.False(t, tr.TryAccept("user-1", t0.Add(time.Second)), "message inside the cooldown should be rejected")
	assert.True(t, tr.TryAccept("user-1", t0.Add(3*time.Second)), "message at the cooldown boundary should be accepted")
}

func TestTryAcceptRejectionKeepsWindow(t *testing.T) {
	tr := newTestTracker()

	require.True(t, tr.TryAccept("user-1", t0))
	assert.False(t, tr.TryAccept("user-1", t0.Add(2*time.Second)))

	// The rejection at t+2s must not restart the window.
	assert.True(t, tr.TryAccept("user-1", t0.Add(3*time.Second)))
}

func TestTryAcceptIsolatesUsers(t *testing.T) {
	tr := newTestTracker()

	require.True(t, tr.TryAccept("user-1", t0))
	assert.True(t, tr.TryAccept("user-2", t0), "second user should not share the first user's window")
	assert.False(t, tr.TryAccept("user-1", t0.Add(time.Second)))
	assert.False(t, tr.TryAccept("user-2", t0.Add(time.Second)))
}

func TestTryAcceptZeroCooldown(t *testing.T) {
	tr := New(Config{Cooldown: 0, StatsEnabled: true})
	for i := range 5 {
		require.True(t, tr.TryAccept("user-1", t0), "message %d should pass with no cooldown", i+1)
	}
}

func TestTryAcceptSameInstant(t *testing.T) {
	tr := newTestTracker()

	require.True(t, tr.TryAccept("user-1", t0))
	assert.False(t, tr.TryAccept("user-1", t0), "second message at the same instant should be rejected")
}

func TestRecordInteractionCounts(t *testing.T) {
	tr := newTestTracker()

	for i := range 5 {
		tr.RecordInteraction("user-1", "ren", t0.Add(time.Duration(i)*time.Minute))
	}

	rec, ok := tr.Stats("user-1")
	require.True(t, ok)
	assert.Equal(t, int64(5), rec.MessageCount)
	assert.Equal(t, t0, rec.FirstSeen, "FirstSeen must not move after creation")
	assert.Equal(t, t0.Add(4*time.Minute), rec.LastSeen)
	assert.Equal(t, "ren", rec.DisplayName)
}

func TestRecordInteractionDisplayName(t *testing.T) {
	tr := newTestTracker()

	tr.RecordInteraction("user-1", "old-name", t0)
	tr.RecordInteraction("user-1", "", t0.Add(time.Minute))

	rec, ok := tr.Stats("user-1")
	require.True(t, ok)
	assert.Equal(t, "old-name", rec.DisplayName, "empty display name should not erase the stored one")

	tr.RecordInteraction("user-1", "new-name", t0.Add(2*time.Minute))
	rec, _ = tr.Stats("user-1")
	assert.Equal(t, "new-name", rec.DisplayName)
}

func TestRecordInteractionCountsRejectedMessages(t *testing.T) {
	tr := newTestTracker()

	tr.RecordInteraction("user-1", "ren", t0)
	require.True(t, tr.TryAccept("user-1", t0))

	tr.RecordInteraction("user-1", "ren", t0.Add(time.Second))
	require.False(t, tr.TryAccept("user-1", t0.Add(time.Second)))

	rec, ok := tr.Stats("user-1")
	require.True(t, ok)
	assert.Equal(t, int64(2), rec.MessageCount, "a rejected message still counts as seen")
}

func TestStatsUnknownUser(t *testing.T) {
	tr := newTestTracker()

	_, ok := tr.Stats("stranger")
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Users(), "Stats must not create records")
}

func TestStatsReturnsCopy(t *testing.T) {
	tr := newTestTracker()
	tr.RecordInteraction("user-1", "ren", t0)

	rec, ok := tr.Stats("user-1")
	require.True(t, ok)
	rec.MessageCount = 999
	rec.DisplayName = "tampered"

	fresh, _ := tr.Stats("user-1")
	assert.Equal(t, int64(1), fresh.MessageCount)
	assert.Equal(t, "ren", fresh.DisplayName)
}

func TestStatsDisabled(t *testing.T) {
	tr := New(Config{Cooldown: 3 * time.Second, StatsEnabled: false})

	tr.RecordInteraction("user-1", "ren", t0)
	_, ok := tr.Stats("user-1")
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Users())

	// The cooldown gate keeps working with statistics off.
	require.True(t, tr.TryAccept("user-1", t0))
	assert.False(t, tr.TryAccept("user-1", t0.Add(time.Second)))
}

func TestPruneDropsIdleUsers(t *testing.T) {
	tr := New(Config{Cooldown: 3 * time.Second, StatsEnabled: true, Retention: time.Hour})

	tr.RecordInteraction("idle", "idle", t0)
	tr.TryAccept("idle", t0)
	tr.RecordInteraction("active", "active", t0.Add(2*time.Hour))

	removed := tr.Prune(t0.Add(time.Hour))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, tr.Users())

	_, ok := tr.Stats("idle")
	assert.False(t, ok)
	_, ok = tr.Stats("active")
	assert.True(t, ok)

	tr.mu.Lock()
	_, hasCooldown := tr.accepted["idle"]
	tr.mu.Unlock()
	assert.False(t, hasCooldown, "cooldown entry should be pruned with the record")
}

func TestRunJanitorNoRetention(t *testing.T) {
	tr := newTestTracker()

	done := make(chan struct{})
	go func() {
		tr.RunJanitor(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor should return immediately when retention is disabled")
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := newTestTracker()
	var wg sync.WaitGroup
	accepted := make([]int, 10)

	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i)
			for range 20 {
				tr.RecordInteraction(userID, userID, t0)
				if tr.TryAccept(userID, t0) {
					accepted[i]++
				}
			}
		}()
	}
	wg.Wait()

	for i, count := range accepted {
		assert.Equal(t, 1, count, "user-%d should win the cooldown exactly once at a single instant", i)
		rec, ok := tr.Stats(fmt.Sprintf("user-%d", i))
		require.True(t, ok)
		assert.Equal(t, int64(20), rec.MessageCount)
	}
}
