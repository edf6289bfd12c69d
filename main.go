package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/merrydance/logistics/api"
	"github.com/merrydance/logistics/cache"
	"github.com/merrydance/logistics/observability"
	"github.com/merrydance/logistics/registry"
	"github.com/merrydance/logistics/util"
	"github.com/merrydance/logistics/worker"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var interruptSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGINT,
}

func main() {
	config, err := util.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	if config.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("log_level", config.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), interruptSignals...)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFrom(config))
	if err != nil {
		log.Fatal().Err(err).Msg("cannot initialize tracing")
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing)

	configs, configErrs := util.ParseInstances(config.Instances)
	for _, err := range configErrs {
		log.Error().Err(err).Msg("skipping instance configuration")
	}
	if len(configs) == 0 {
		log.Warn().Msg("no instances configured, the service will not be ready")
	}

	instances := registry.New()
	bootstrapper := registry.NewBootstrapper(instances, registry.NetworkLoader(config.DefaultProfile))

	var (
		routeCache      cache.RouteCache
		jobs            cache.JobStore
		taskDistributor worker.TaskDistributor
		redisOpt        asynq.RedisClientOpt
	)
	if config.RedisAddress != "" {
		client, err := cache.NewRedisClient(config.RedisAddress, config.RedisPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis - check REDIS_ADDRESS configuration")
		}
		redisCache := cache.NewRedisCache(client, config.RouteCacheTTL)
		routeCache, jobs = redisCache, redisCache
		log.Info().Str("redis_address", config.RedisAddress).Msg("Redis connection verified")

		redisOpt = asynq.RedisClientOpt{
			Addr:     config.RedisAddress,
			Password: config.RedisPassword,
		}
	} else {
		log.Warn().Msg("REDIS_ADDRESS is not configured, route cache and tour jobs disabled")
	}

	waitGroup, ctx := errgroup.WithContext(ctx)

	runBootstrapper(ctx, waitGroup, bootstrapper, configs)
	runReloader(ctx, waitGroup, config, bootstrapper, configs)
	if jobs != nil {
		taskDistributor = runTaskProcessor(ctx, waitGroup, config, redisOpt, instances, jobs)
	}
	runGinServer(ctx, waitGroup, config, instances, routeCache, jobs, taskDistributor)

	err = waitGroup.Wait()
	if err != nil {
		log.Fatal().Err(err).Msg("error from wait group")
	}
}

// runBootstrapper loads every configured instance in the background. Failed
// instances are logged and stay inactive; the service keeps running.
func runBootstrapper(
	ctx context.Context,
	waitGroup *errgroup.Group,
	bootstrapper *registry.Bootstrapper,
	configs []util.InstanceConfig,
) {
	outcomes := bootstrapper.Start(ctx, configs)

	waitGroup.Go(func() error {
		active := 0
		for outcome := range outcomes {
			if outcome.Err == nil {
				active++
			}
		}
		log.Info().
			Int("configured", len(configs)).
			Int("active", active).
			Msg("instance bootstrap finished")
		return nil
	})
}

func runReloader(
	ctx context.Context,
	waitGroup *errgroup.Group,
	config util.Config,
	bootstrapper *registry.Bootstrapper,
	configs []util.InstanceConfig,
) {
	if config.ReloadSchedule == "" || len(configs) == 0 {
		return
	}

	reloader := registry.NewReloader(bootstrapper, configs)
	if err := reloader.Start(config.ReloadSchedule); err != nil {
		log.Error().Err(err).Str("schedule", config.ReloadSchedule).Msg("failed to start instance reloader")
		return
	}

	waitGroup.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("graceful shutdown instance reloader")
		reloader.Stop()
		return nil
	})
}

func runTaskProcessor(
	ctx context.Context,
	waitGroup *errgroup.Group,
	config util.Config,
	redisOpt asynq.RedisClientOpt,
	instances *registry.Registry,
	jobs cache.JobStore,
) worker.TaskDistributor {
	taskDistributor := worker.NewRedisTaskDistributor(redisOpt)

	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, instances, jobs, config.RequestTimeout)
	log.Info().Msg("start task processor")

	waitGroup.Go(func() error {
		return taskProcessor.Start()
	})

	waitGroup.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("graceful shutdown task processor")
		taskProcessor.Shutdown()
		log.Info().Msg("task processor is stopped")
		return nil
	})

	return taskDistributor
}

// runGinServer starts the Gin HTTP server
func runGinServer(
	ctx context.Context,
	waitGroup *errgroup.Group,
	config util.Config,
	instances *registry.Registry,
	routeCache cache.RouteCache,
	jobs cache.JobStore,
	taskDistributor worker.TaskDistributor,
) {
	server, err := api.NewServer(config, instances, routeCache, jobs, taskDistributor)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create server")
	}

	// tour 计算可能接近 REQUEST_TIMEOUT，写超时留出余量
	writeTimeout := 2 * time.Minute
	if config.RequestTimeout > 0 {
		writeTimeout = config.RequestTimeout + 30*time.Second
	}

	httpServer := &http.Server{
		Addr:              config.HTTPServerAddress,
		Handler:           server.GetRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}

	waitGroup.Go(func() error {
		log.Info().Msgf("start HTTP server at %s", config.HTTPServerAddress)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server failed to serve")
			return err
		}
		return nil
	})

	waitGroup.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("graceful shutdown HTTP server")

		// 给予10秒时间完成正在处理的请求
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server forced to shutdown")
			return err
		}
		server.Close()

		log.Info().Msg("HTTP server is stopped")
		return nil
	})
}
