package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/bang/internal/directory"
	"github.com/MrSnakeDoc/bang/internal/logger"
)

// DirectoryReloader handles periodic reloading of the curated bang
// directory from bangs.yaml.
type DirectoryReloader struct {
	loader        *directory.Loader
	dir           *directory.Directory
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewDirectoryReloader creates a new directory reloader.
func NewDirectoryReloader(
	bangFile string,
	dir *directory.Directory,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *DirectoryReloader {
	return &DirectoryReloader{
		loader:        directory.NewLoader(bangFile),
		dir:           dir,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the directory once, then keeps it fresh on a ticker and
// on manual triggers. A failed initial load is fatal; later failures
// keep the previous entries in place.
func (dr *DirectoryReloader) Start(ctx context.Context) error {
	if err := dr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(dr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := dr.Reload(ctx); err != nil {
					dr.logger.Error("failed to reload directory",
						logger.Error(err))
				}
			case <-dr.manualTrigger:
				dr.logger.Info("manual directory reload triggered")
				if err := dr.Reload(ctx); err != nil {
					dr.logger.Error("failed to reload directory",
						logger.Error(err))
				}
			case <-dr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader.
func (dr *DirectoryReloader) Stop() {
	close(dr.stopCh)
}

// Reload parses bangs.yaml and swaps the in-memory directory.
func (dr *DirectoryReloader) Reload(_ context.Context) error {
	config, err := dr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load bang directory: %w", err)
	}

	dr.dir.Update(config)
	dr.logger.Info("bang directory reloaded",
		logger.Int("count", dr.dir.Count()))

	return nil
}
