package registry

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/merrydance/logistics/util"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Reloader periodically re-bootstraps instances whose network file changed.
type Reloader struct {
	cron         *cron.Cron
	bootstrapper *Bootstrapper
	configs      []util.InstanceConfig
	timeout      time.Duration

	mu       sync.Mutex
	modTimes map[string]time.Time
}

// NewReloader creates a reloader over the given configs.
func NewReloader(bootstrapper *Bootstrapper, configs []util.InstanceConfig) *Reloader {
	r := &Reloader{
		cron:         cron.New(),
		bootstrapper: bootstrapper,
		configs:      configs,
		timeout:      10 * time.Minute,
		modTimes:     make(map[string]time.Time),
	}
	for _, config := range configs {
		if info, err := os.Stat(config.Path); err == nil {
			r.modTimes[config.Name] = info.ModTime()
		}
	}
	return r
}

// Start schedules the reload check, e.g. "*/5 * * * *".
func (r *Reloader) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.Reload(ctx)
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	log.Info().Str("schedule", schedule).Msg("instance reloader started")
	return nil
}

// Stop stops the scheduler and waits for a running reload.
func (r *Reloader) Stop() {
	<-r.cron.Stop().Done()
	log.Info().Msg("instance reloader stopped")
}

// Reload re-bootstraps the changed instances and returns their outcomes.
// The previous instance stays published when a reload fails.
func (r *Reloader) Reload(ctx context.Context) []Outcome {
	changed := r.changed()
	if len(changed) == 0 {
		return nil
	}

	var outcomes []Outcome
	for outcome := range r.bootstrapper.Start(ctx, changed) {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (r *Reloader) changed() []util.InstanceConfig {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed []util.InstanceConfig
	for _, config := range r.configs {
		info, err := os.Stat(config.Path)
		if err != nil {
			log.Warn().Err(err).Str("instance", config.Name).Msg("cannot stat network file")
			continue
		}
		if last, ok := r.modTimes[config.Name]; ok && !info.ModTime().After(last) {
			continue
		}
		r.modTimes[config.Name] = info.ModTime()
		changed = append(changed, config)
	}
	return changed
}
