// Command airbnb-listings serves the listings web application.
package main

import (
	"context"
	"fmt"

	"github.com/nimburion/airbnb-listings/pkg/cli"
	"github.com/nimburion/airbnb-listings/pkg/config"
	"github.com/nimburion/airbnb-listings/pkg/controller"
	"github.com/nimburion/airbnb-listings/pkg/health"
	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
	"github.com/nimburion/airbnb-listings/pkg/server"
	"github.com/nimburion/airbnb-listings/pkg/server/router"
	"github.com/nimburion/airbnb-listings/pkg/store/mongodb"
	"github.com/nimburion/airbnb-listings/pkg/view"
)

const serviceName = "airbnb-listings"

func main() {
	cli.Execute(cli.NewServiceCommand(cli.ServiceCommandOptions{
		Name:              serviceName,
		Description:       "Browse, search and edit Airbnb listings stored in MongoDB",
		EnvPrefix:         "APP",
		RunServer:         runServer,
		CheckDependencies: checkDependencies,
	}))
}

func runServer(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	adapter, err := connect(cfg, log)
	if err != nil {
		return err
	}

	views, err := view.New(view.WithMinify(cfg.Web.MinifyHTML))
	if err != nil {
		_ = adapter.Close()
		return fmt.Errorf("load templates: %w", err)
	}

	listings := controller.NewListingController(adapter.Listings(cfg.Database.Collection), views, log)

	healthRegistry := health.NewRegistry()
	healthRegistry.Register(health.NewDatabaseChecker(adapter))

	opts := &server.RunHTTPServersOptions{
		Config:         cfg,
		Logger:         log,
		Assets:         view.Assets(),
		HealthRegistry: healthRegistry,
		RegisterRoutes: func(r router.Router) {
			controller.RegisterRoutes(r, listings)
		},
		ShutdownHooks: []server.LifecycleHook{
			{Name: "mongodb", Fn: func(context.Context) error { return adapter.Close() }},
		},
	}

	servers, err := server.BuildHTTPServers(opts)
	if err != nil {
		_ = adapter.Close()
		return err
	}
	return server.RunHTTPServersWithSignals(ctx, servers, opts)
}

func checkDependencies(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	adapter, err := connect(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = adapter.Close() }()

	registry := health.NewRegistry()
	registry.Register(health.NewDatabaseChecker(adapter))
	result := registry.Check(ctx)
	for _, check := range result.Checks {
		log.Info("dependency check", "name", check.Name, "status", check.Status, "message", check.Message)
	}
	if !result.IsHealthy() {
		return fmt.Errorf("dependencies are %s", result.Status)
	}
	return nil
}

func connect(cfg *config.Config, log logger.Logger) (*mongodb.Adapter, error) {
	adapter, err := mongodb.NewAdapter(mongodb.Config{
		URL:              cfg.Database.URL,
		Database:         cfg.Database.DatabaseName,
		ConnectTimeout:   cfg.Database.ConnectTimeout,
		OperationTimeout: cfg.Database.QueryTimeout,
	}, log)
	if err != nil {
		log.Error("failed to connect to mongodb", "error", err, "url", config.RedactURL(cfg.Database.URL))
		return nil, err
	}
	return adapter, nil
}
