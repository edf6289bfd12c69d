package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/merrydance/logistics/network"
	"github.com/merrydance/logistics/profile"
	"github.com/merrydance/logistics/tour"
	"github.com/merrydance/logistics/tsp"
	"github.com/merrydance/logistics/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var bootstrapsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tour_instance_bootstraps_total",
		Help: "Total number of instance bootstraps by outcome",
	},
	[]string{"instance", "outcome"},
)

// Loader builds a ready instance from its configuration.
type Loader func(ctx context.Context, config util.InstanceConfig) (tour.Instance, error)

// Outcome the result of bootstrapping one instance.
type Outcome struct {
	Name     string
	Instance tour.Instance
	Err      error
	Duration time.Duration
}

// Bootstrapper loads configured instances concurrently and publishes each
// one as soon as it is ready.
type Bootstrapper struct {
	registry *Registry
	loader   Loader
}

// NewBootstrapper creates a bootstrapper publishing into registry.
func NewBootstrapper(registry *Registry, loader Loader) *Bootstrapper {
	return &Bootstrapper{registry: registry, loader: loader}
}

// Start bootstraps every config on its own goroutine. Outcomes are delivered
// on the returned channel, which is closed once all tasks are done. A failing
// instance never affects its siblings.
func (b *Bootstrapper) Start(ctx context.Context, configs []util.InstanceConfig) <-chan Outcome {
	outcomes := make(chan Outcome, len(configs))
	var wg sync.WaitGroup
	for _, config := range configs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes <- b.bootstrap(ctx, config)
		}()
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()
	return outcomes
}

func (b *Bootstrapper) bootstrap(ctx context.Context, config util.InstanceConfig) (outcome Outcome) {
	start := time.Now()
	outcome.Name = config.Name
	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("bootstrap %s panicked: %v", config.Name, r)
		}
		outcome.Duration = time.Since(start)

		if outcome.Err != nil {
			bootstrapsTotal.WithLabelValues(config.Name, "failure").Inc()
			log.Error().Err(outcome.Err).Str("instance", config.Name).Str("path", config.Path).Msg("failed to create instance")
			return
		}
		bootstrapsTotal.WithLabelValues(config.Name, "success").Inc()
		log.Info().Str("instance", config.Name).Dur("duration", outcome.Duration).Msgf("instance %s created successfully", config.Name)
	}()

	log.Info().Str("instance", config.Name).Str("path", config.Path).Msgf("creating %s instance...", config.Name)
	instance, err := b.loader(ctx, config)
	if err != nil {
		outcome.Err = tour.NewError(tour.KindConfiguration, fmt.Sprintf("instance %s could not be loaded", config.Name), err)
		return
	}
	b.registry.Register(config.Name, instance)
	outcome.Instance = instance
	return
}

// NetworkLoader loads the instance network from disk, warms the factor cache
// for every supported profile and wires the router and solver.
func NetworkLoader(defaultProfile string) Loader {
	return func(ctx context.Context, config util.InstanceConfig) (tour.Instance, error) {
		n, err := network.Load(config.Path)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		factors := network.NewFactorCache(n)
		warmed := factors.WarmAll()
		if p, ok := profile.TryGet(defaultProfile); !ok {
			log.Warn().Str("instance", config.Name).Str("profile", defaultProfile).Msg("default profile not found")
		} else if !factors.Contains(p.Name) {
			log.Warn().Str("instance", config.Name).Str("profile", defaultProfile).Msg("default profile not supported by network")
		}
		log.Debug().Str("instance", config.Name).Strs("profiles", warmed).Msg("factor cache warmed")

		router := network.NewRouter(n, factors, network.FastRouteBuilder{})
		return tour.NewInstance(config.Name, router, tsp.GASolver{}), nil
	}
}
