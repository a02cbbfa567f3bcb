package pomodoro

import (
	"context"
	"fmt"
	"time"
)

// Run starts s and feeds it one tick per value received on ticks until the
// current phase completes or ctx is done. onTick, if set, sees every state
// after a tick. A work completion is passed to onComplete before Run returns.
func Run(ctx context.Context, s State, ticks <-chan time.Time, onTick func(State), onComplete func(SessionCompleted) error) (State, error) {
	s = s.Start()
	for {
		select {
		case <-ctx.Done():
			return s.Pause(), ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return s.Pause(), fmt.Errorf("run %s phase: tick source closed", s.phase)
			}
			var ev *SessionCompleted
			s, ev = s.Tick()
			if onTick != nil {
				onTick(s)
			}
			if s.status == Running {
				continue
			}
			if ev != nil && onComplete != nil {
				if err := onComplete(*ev); err != nil {
					return s, fmt.Errorf("record %s session: %w", ev.Phase, err)
				}
			}
			return s, nil
		}
	}
}
