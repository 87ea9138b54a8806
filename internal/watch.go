package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/qmin/internal/types"
)

// settleDelay groups bursts of writes to the same file into one run.
const settleDelay = 100 * time.Millisecond

// WatchHandler receives the outcome of re-running a changed problem file.
type WatchHandler func(filename string, report *types.Report, err error)

// Watch re-minimizes problem files under dirs whenever they are written or
// created, until ctx is done. match selects the files to process.
func (e *Engine) Watch(ctx context.Context, dirs []string, match func(string) bool, handle WatchHandler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	e.logger.Info("watching", zap.Strings("dirs", dirs))

	pending := make(map[string]struct{})
	timer := time.NewTimer(settleDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !match(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(settleDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watcher error", zap.Error(err))
		case <-timer.C:
			for filename := range pending {
				report, err := e.Run(filename)
				handle(filename, report, err)
			}
			clear(pending)
		}
	}
}
