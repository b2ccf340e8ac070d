package feed

import (
	"context"
	"sync"
	"time"

	"courtbook/internal/domain"
)

// RunDayWatchers keeps one watcher alive per court for today and tomorrow,
// the only dates the system books. Each watcher lives until local midnight,
// then is replaced by one for the rolled-over date. Blocks until the context
// is canceled.
func RunDayWatchers(ctx context.Context, source Source, hub *Hub, producer Producer, topic string, courts []int, interval time.Duration) {
	var wg sync.WaitGroup
	for _, courtID := range courts {
		for offset := 0; offset <= 1; offset++ {
			wg.Add(1)
			go func(courtID, offset int) {
				defer wg.Done()
				for ctx.Err() == nil {
					now := time.Now()
					watcher := NewWatcher(source, hub, courtID, domain.DateWithOffset(now, offset), interval)
					if producer != nil {
						watcher = watcher.WithProducer(producer, topic)
					}
					dayCtx, cancel := context.WithDeadline(ctx, nextMidnight(now))
					watcher.Run(dayCtx)
					cancel()
				}
			}(courtID, offset)
		}
	}
	wg.Wait()
}

func nextMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
}
