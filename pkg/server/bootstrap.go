package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nimburion/airbnb-listings/pkg/config"
	"github.com/nimburion/airbnb-listings/pkg/health"
	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
	"github.com/nimburion/airbnb-listings/pkg/observability/metrics"
	"github.com/nimburion/airbnb-listings/pkg/observability/tracing"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
	"github.com/nimburion/airbnb-listings/pkg/server/router/factory"
	"github.com/nimburion/airbnb-listings/pkg/version"
)

// LifecycleHook defines a named shutdown action, such as closing the store client.
type LifecycleHook struct {
	Name string
	Fn   func(context.Context) error
}

// RunHTTPServersOptions defines inputs for building and running the HTTP servers.
type RunHTTPServersOptions struct {
	Config *config.Config
	Logger logger.Logger

	// Assets are served under AssetsPrefix by the public server. Optional.
	Assets fs.FS
	// RegisterRoutes installs the page routes after the middleware stack is in place.
	RegisterRoutes func(r router.Router)

	HealthRegistry  *health.Registry
	MetricsRegistry *metrics.Registry

	// ShutdownHooks run after both servers have stopped, in order.
	ShutdownHooks       []LifecycleHook
	ShutdownHookTimeout time.Duration
}

// HTTPServers groups the public and management servers. Management is nil when disabled.
type HTTPServers struct {
	Public     *PublicServer
	Management *ManagementServer
}

// BuildHTTPServers constructs the servers from config and options.
func BuildHTTPServers(opts *RunHTTPServersOptions) (*HTTPServers, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}

	publicRouter, err := factory.NewRouter(opts.Config.RouterType)
	if err != nil {
		return nil, fmt.Errorf("create public router: %w", err)
	}
	public := NewPublicServer(opts.Config, publicRouter, opts.Assets, opts.Logger)
	if opts.RegisterRoutes != nil {
		opts.RegisterRoutes(public.Router())
	}

	servers := &HTTPServers{Public: public}
	if !opts.Config.Management.Enabled {
		return servers, nil
	}

	managementRouter, err := factory.NewRouter(opts.Config.RouterType)
	if err != nil {
		return nil, fmt.Errorf("create management router: %w", err)
	}
	healthRegistry := opts.HealthRegistry
	if healthRegistry == nil {
		healthRegistry = health.NewRegistry()
	}
	metricsRegistry := opts.MetricsRegistry
	if metricsRegistry == nil {
		metricsRegistry = metrics.NewRegistry()
	}

	servers.Management = NewManagementServer(
		opts.Config.Management,
		managementRouter,
		opts.Logger,
		healthRegistry,
		metricsRegistry,
		version.Current(resolveServiceName(opts)),
	)
	return servers, nil
}

// RunHTTPServers starts the public server and, when built, the management server.
// It returns when ctx is cancelled or either server fails; the other server is then
// shut down too, and the shutdown hooks run last.
func RunHTTPServers(ctx context.Context, servers *HTTPServers, opts *RunHTTPServersOptions) error {
	if servers == nil || servers.Public == nil {
		return errors.New("servers and public server are required")
	}
	if opts.Logger == nil {
		return errors.New("logger is required")
	}
	if opts.Config == nil {
		return errors.New("config is required")
	}

	versionInfo := version.Current(resolveServiceName(opts))
	opts.Logger.Info("application version metadata",
		"service", versionInfo.Service,
		"version", versionInfo.Version,
		"commit", versionInfo.Commit,
		"build_time", versionInfo.BuildTime,
	)

	// Hooks run on every exit, including a failed tracing setup.
	defer func() {
		if shutdownErr := runShutdownHooks(opts); shutdownErr != nil {
			opts.Logger.Error("shutdown hooks completed with errors", "error", shutdownErr)
		}
	}()

	tracerProvider, err := initTracerProvider(ctx, opts, versionInfo)
	if err != nil {
		return fmt.Errorf("initialize tracing provider: %w", err)
	}
	defer shutdownTracerProvider(tracerProvider, opts.Logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverCount := 1
	if servers.Management != nil {
		serverCount = 2
	}

	errCh := make(chan error, serverCount)
	go func() { errCh <- servers.Public.Start(runCtx) }()
	if servers.Management != nil {
		go func() { errCh <- servers.Management.Start(runCtx) }()
	}

	var firstErr error
	for idx := 0; idx < serverCount; idx++ {
		currentErr := <-errCh
		if currentErr != nil && firstErr == nil {
			firstErr = currentErr
			cancel()
		}
	}
	return firstErr
}

// RunHTTPServersWithSignals runs the servers until ctx is done or SIGINT or SIGTERM arrives.
func RunHTTPServersWithSignals(ctx context.Context, servers *HTTPServers, opts *RunHTTPServersOptions, signals ...os.Signal) error {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ctx, stop := signal.NotifyContext(ctx, signals...)
	defer stop()
	return RunHTTPServers(ctx, servers, opts)
}

func initTracerProvider(ctx context.Context, opts *RunHTTPServersOptions, info version.Info) (*tracing.TracerProvider, error) {
	return tracing.NewTracerProvider(ctx, tracing.TracerConfig{
		ServiceName:    info.Service,
		ServiceVersion: info.Version,
		Environment:    resolveEnvironment(opts),
		Endpoint:       opts.Config.Observability.TracingEndpoint,
		SampleRate:     opts.Config.Observability.TracingSampleRate,
		Enabled:        opts.Config.Observability.TracingEnabled,
	})
}

func shutdownTracerProvider(provider *tracing.TracerProvider, log logger.Logger) {
	if provider == nil {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := provider.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown tracing provider", "error", err)
	}
}

func resolveServiceName(opts *RunHTTPServersOptions) string {
	if opts.Config != nil {
		if trimmed := strings.TrimSpace(opts.Config.Service.Name); trimmed != "" {
			return trimmed
		}
	}
	return version.Unknown
}

func resolveEnvironment(opts *RunHTTPServersOptions) string {
	if opts.Config != nil {
		if trimmed := strings.TrimSpace(opts.Config.Service.Environment); trimmed != "" {
			return trimmed
		}
	}
	return version.Unknown
}

func runShutdownHooks(opts *RunHTTPServersOptions) error {
	if len(opts.ShutdownHooks) == 0 {
		return nil
	}

	timeout := opts.ShutdownHookTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var errs []error
	for _, hook := range opts.ShutdownHooks {
		if hook.Fn == nil {
			continue
		}
		name := strings.TrimSpace(hook.Name)
		if name == "" {
			name = "unnamed"
		}
		opts.Logger.Info("shutdown hook start", "hook", name)

		hookCtx, cancel := context.WithTimeout(context.Background(), timeout)
		err := hook.Fn(hookCtx)
		cancel()

		if err != nil {
			opts.Logger.Error("shutdown hook failed", "hook", name, "error", err)
			errs = append(errs, fmt.Errorf("shutdown hook %q failed: %w", name, err))
			continue
		}
		opts.Logger.Info("shutdown hook complete", "hook", name)
	}
	return errors.Join(errs...)
}
