// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/shelfscout/shelfscout/internal/metrics"
)

// defaultDebounce absorbs the event bursts editors and atomic-save
// tools emit for a single write.
const defaultDebounce = 200 * time.Millisecond

// Watcher reloads the catalog when its file changes on disk.
//
// It implements suture.Service: Serve blocks until the context is
// canceled. The parent directory is watched rather than the file
// itself, because rename-based saves replace the watched inode.
// A failed reload is logged and the previous snapshot stays live.
type Watcher struct {
	path     string
	reload   func(context.Context) error
	debounce time.Duration
	logger   zerolog.Logger
}

// NewWatcher creates a watcher for the catalog file at path. The
// reload callback is invoked after changes settle.
func NewWatcher(path string, reload func(context.Context) error, logger zerolog.Logger) *Watcher {
	return &Watcher{
		path:     path,
		reload:   reload,
		debounce: defaultDebounce,
		logger:   logger,
	}
}

// Serve implements suture.Service.
func (w *Watcher) Serve(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.logger.Info().Str("path", w.path).Msg("watching catalog file")

	base := filepath.Base(w.path)
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return errors.New("file watcher event channel closed")
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("file watcher error channel closed")
			}
			w.logger.Warn().Err(err).Msg("file watcher error")

		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.reload(ctx); err != nil {
				metrics.RecordCatalogReload(false)
				w.logger.Error().Err(err).Str("path", w.path).Msg("catalog reload failed, keeping previous snapshot")
				continue
			}
			metrics.RecordCatalogReload(true)
			w.logger.Info().Str("path", w.path).Msg("catalog reloaded")
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (w *Watcher) String() string {
	return "catalog-watcher"
}
