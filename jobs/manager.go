// Package jobs provides background job processing functionality.
package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

// JobManager handles background job execution
type JobManager struct {
	refreshJob *MetadataRefreshJob
	interval   time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	running    bool
	mu         sync.RWMutex
}

// NewJobManager creates a new job manager
func NewJobManager(refreshJob *MetadataRefreshJob) *JobManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &JobManager{
		refreshJob: refreshJob,
		interval:   6 * time.Hour,
		ctx:        ctx,
		cancel:     cancel,
		running:    false,
	}
}

// Start begins the job manager background processing
func (jm *JobManager) Start() {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if jm.running {
		log.Println("Job manager is already running")
		return
	}

	jm.running = true
	log.Println("Starting job manager...")

	jm.wg.Add(1)
	go jm.runPeriodicRefresh()
}

// Stop stops the job manager and waits for in-flight jobs to finish
func (jm *JobManager) Stop() {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if !jm.running {
		return
	}

	log.Println("Stopping job manager...")
	jm.cancel()
	jm.running = false

	jm.wg.Wait()
	log.Println("Job manager stopped")
}

// IsRunning returns whether the job manager is currently running
func (jm *JobManager) IsRunning() bool {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	return jm.running
}

// TriggerRefresh immediately refreshes watchlist metadata in the background
func (jm *JobManager) TriggerRefresh() {
	if jm.refreshJob == nil {
		log.Println("Cannot trigger refresh: no refresh job configured")
		return
	}

	jm.wg.Add(1)
	go func() {
		defer jm.wg.Done()
		if err := jm.refreshJob.RefreshWatchlist(jm.ctx); err != nil {
			log.Printf("Watchlist refresh failed: %v", err)
		}
	}()
}

// runPeriodicRefresh re-fetches watchlist metadata on a fixed interval
func (jm *JobManager) runPeriodicRefresh() {
	defer jm.wg.Done()

	if jm.refreshJob == nil {
		log.Println("No refresh job configured, skipping periodic refresh")
		<-jm.ctx.Done()
		return
	}

	ticker := time.NewTicker(jm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-jm.ctx.Done():
			log.Println("Periodic watchlist refresh stopped")
			return
		case <-ticker.C:
			log.Println("Running periodic watchlist refresh...")
			if err := jm.refreshJob.RefreshWatchlist(jm.ctx); err != nil {
				log.Printf("Periodic watchlist refresh failed: %v", err)
			}
		}
	}
}
