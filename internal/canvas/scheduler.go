package canvas

import (
	"context"
	"sync"
	"time"
)

// Frame interval for committing staged interaction updates, roughly 60fps.
const frameInterval = 16 * time.Millisecond

// FrameScheduler drives an Engine's Flush on a frame tick so that pointer
// moves arriving faster than the frame rate coalesce into one commit.
// All engine access goes through the scheduler's mutex, which is also what
// makes a session's engine safe to share between request handlers.
type FrameScheduler struct {
	mu     sync.Mutex
	engine *Engine
	cancel context.CancelFunc
}

func NewFrameScheduler(engine *Engine) *FrameScheduler {
	return &FrameScheduler{engine: engine}
}

// Start begins the frame loop. Stop with Stop or by cancelling ctx.
func (s *FrameScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				s.engine.Flush()
				s.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *FrameScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// WithEngine runs fn while holding the scheduler's lock, so handler code
// can feed pointer events without racing the frame tick.
func (s *FrameScheduler) WithEngine(fn func(*Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}
