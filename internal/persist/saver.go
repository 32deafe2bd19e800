package persist

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"rimborsikm/internal/slot"
	"rimborsikm/internal/store"
)

// DefaultDebounce is the quiet window a burst of mutations must outlast
// before the document is written.
const DefaultDebounce = 500 * time.Millisecond

// Saver writes snapshots to the slot, debounced. Each Schedule call replaces
// any pending snapshot and re-arms the timer, so only the last snapshot of a
// burst reaches storage. Write failures are logged and never interrupt the
// caller.
type Saver struct {
	slot   slot.Slot
	logger *zap.Logger
	delay  time.Duration
	encode func(store.Snapshot) ([]byte, error)

	mu      sync.Mutex
	timer   *time.Timer
	pending *store.Snapshot
}

// NewSaver constructs a Saver with the given quiet window; zero or negative
// means DefaultDebounce.
func NewSaver(sl slot.Slot, logger *zap.Logger, delay time.Duration) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Saver{slot: sl, logger: logger, delay: delay, encode: Encode}
}

// Schedule records snap as the snapshot to persist and restarts the quiet
// window. A snapshot superseded before the window elapses is never written.
func (s *Saver) Schedule(snap store.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &snap
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Saver) fire() {
	s.mu.Lock()
	snap := s.pending
	s.pending = nil
	s.timer = nil
	s.mu.Unlock()
	if snap == nil {
		return
	}
	if err := s.write(context.Background(), *snap); err != nil {
		s.logger.Warn("persist state failed",
			zap.String("driver", string(s.slot.Driver())), zap.Error(err))
	}
}

// Flush cancels any armed timer and writes the pending snapshot immediately.
// Intended for shutdown; with nothing pending it is a no-op.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	snap := s.pending
	s.pending = nil
	s.mu.Unlock()
	if snap == nil {
		return nil
	}
	return s.write(ctx, *snap)
}

func (s *Saver) write(ctx context.Context, snap store.Snapshot) error {
	payload, err := s.encode(snap)
	if err != nil {
		return err
	}
	return s.slot.Write(ctx, payload)
}
