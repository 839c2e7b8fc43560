package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/web3guy0/stakebot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// HISTORY LOG - Append-only record collection with async sink fan-out
// ═══════════════════════════════════════════════════════════════════════════════
//
// The in-memory append happens inside the engine's critical section (O(1)).
// Sink writes are handed off through a bounded queue to a single writer
// goroutine so bet latency never depends on I/O latency. The writer
// preserves enqueue order; on overflow the record is kept in memory but the
// sink write is dropped with a warning — logging failure never blocks or
// fails a bet decision.
//
// ═══════════════════════════════════════════════════════════════════════════════

// Sink receives wager records in insertion order with best-effort
// durability. storage.Journal, storage.Store and bot.Notifier all satisfy it.
type Sink interface {
	Append(types.Wager) error
}

type historyLog struct {
	mu      sync.RWMutex
	records []types.Wager

	queue chan types.Wager
	done  chan struct{}
	once  sync.Once
	sinks []Sink
}

func newHistoryLog(queueSize int, sinks []Sink) *historyLog {
	if queueSize <= 0 {
		queueSize = 1024
	}
	h := &historyLog{
		queue: make(chan types.Wager, queueSize),
		done:  make(chan struct{}),
		sinks: sinks,
	}
	go h.run()
	return h
}

func (h *historyLog) run() {
	defer close(h.done)
	for w := range h.queue {
		for _, s := range h.sinks {
			if err := s.Append(w); err != nil {
				log.Warn().Err(err).Str("wager_id", w.ID).Msg("History sink write failed")
			}
		}
	}
}

// append records the wager and hands it to the writer without blocking.
func (h *historyLog) append(w types.Wager) {
	h.mu.Lock()
	h.records = append(h.records, w)
	h.mu.Unlock()

	select {
	case h.queue <- w:
	default:
		log.Warn().Str("wager_id", w.ID).Msg("History queue full — sink write dropped")
	}
}

// all returns a copy of the records in insertion order.
func (h *historyLog) all() []types.Wager {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]types.Wager, len(h.records))
	copy(out, h.records)
	return out
}

// close drains the queue and waits for the writer to finish.
func (h *historyLog) close() {
	h.once.Do(func() {
		close(h.queue)
		<-h.done
	})
}
