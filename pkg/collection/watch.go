package collection

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rjeczalik/notify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long Watch waits after the last change before reloading.
const DefaultDebounce = 2 * time.Second

// Watch reloads h whenever the file at path changes, until ctx is done.
// Bursts of events within debounce collapse into one reload.
func Watch(ctx context.Context, h *Holder, path string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir, base := filepath.Dir(abs), filepath.Base(abs)

	events := make(chan notify.EventInfo, 16)
	if err := notify.Watch(dir, events, notify.Write, notify.Create, notify.Rename); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	defer notify.Stop(events)

	h.logger.Info("watching collection file", zap.String("path", abs), zap.Duration("debounce", debounce))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt := <-events:
			if filepath.Base(evt.Path()) != base {
				continue
			}
			h.logger.Debug("collection file changed", zap.String("path", evt.Path()), zap.String("event", evt.Event().String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			_ = h.Reload(ctx)
		}
	}
}
