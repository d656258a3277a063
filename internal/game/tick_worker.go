package game

import (
	"context"
	"time"

	"github.com/playmatatu/minigolf/internal/logging"
)

// TickListener receives every session outcome of a worker tick. It is called
// on the worker goroutine and must not block.
type TickListener func(outcome TickOutcome)

// StartTickWorker ticks every in-progress session at rateHz until ctx is done.
func StartTickWorker(ctx context.Context, gm *GameManager, rateHz int, listener TickListener) {
	if rateHz <= 0 {
		rateHz = TickRateHz
	}
	interval := time.Second / time.Duration(rateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.L().Infof("[TICK] Starting tick worker (%d Hz)", rateHz)

	for {
		select {
		case <-ctx.Done():
			logging.L().Infof("[TICK] Worker stopped")
			return
		case <-ticker.C:
			for _, o := range gm.TickAll() {
				if listener != nil {
					listener(o)
				}
			}
		}
	}
}
