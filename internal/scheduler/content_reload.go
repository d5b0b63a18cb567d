package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/swaply-web/internal/logger"
	"github.com/MrSnakeDoc/swaply-web/internal/sources/site"
)

// ReloadStatus is the outcome of the last content reload, shown on /infra
type ReloadStatus struct {
	LastReload time.Time `json:"last_reload"`
	LastError  string    `json:"last_error,omitempty"`
	Reloads    int       `json:"reloads"`
	Source     string    `json:"source"`
}

// ContentReloader handles periodic reloading of the site content file
type ContentReloader struct {
	loader        *site.Loader
	mapper        *site.Mapper
	holder        *site.Holder
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}

	mu     sync.RWMutex
	status ReloadStatus
}

// NewContentReloader creates a new content reloader. An empty contentFile
// keeps the built-in defaults and disables the periodic reload.
func NewContentReloader(
	contentFile string,
	holder *site.Holder,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ContentReloader {
	cr := &ContentReloader{
		mapper:        site.NewMapper(),
		holder:        holder,
		logger:        log.With(logger.String("component", "content_reload")),
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
		status:        ReloadStatus{Source: "defaults"},
	}
	if contentFile != "" {
		cr.loader = site.NewLoader(contentFile)
		cr.status.Source = contentFile
	}
	return cr
}

// Start loads the content once, then keeps reloading it in the background
func (cr *ContentReloader) Start(ctx context.Context) error {
	if cr.loader == nil {
		cr.logger.Info("no content file configured, serving default site content")
		return nil
	}

	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	if cr.interval <= 0 {
		cr.interval = time.Hour
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload site content", logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload site content", logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *ContentReloader) Stop() {
	cr.stopOnce.Do(func() { close(cr.stopCh) })
}

// Reload reads the content file and publishes it. On failure the
// previously published content stays in place.
func (cr *ContentReloader) Reload(_ context.Context) error {
	if cr.loader == nil {
		return nil
	}

	err := cr.reload()

	cr.mu.Lock()
	cr.status.Reloads++
	if err != nil {
		cr.status.LastError = err.Error()
	} else {
		cr.status.LastError = ""
		cr.status.LastReload = time.Now()
	}
	cr.mu.Unlock()

	return err
}

func (cr *ContentReloader) reload() error {
	config, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load site content: %w", err)
	}

	content, err := cr.mapper.MapContent(config)
	if err != nil {
		return fmt.Errorf("failed to map site content: %w", err)
	}

	cr.holder.Set(content)
	cr.logger.Info("site content reloaded",
		logger.Int("categories", len(content.Categories)),
		logger.Int("cities", len(content.Cities)))

	return nil
}

// Status returns a snapshot of the last reload
func (cr *ContentReloader) Status() ReloadStatus {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.status
}
