/*
 *    Copyright 2023 iFood
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package app

import (
	adaptersin "clam-eye/adapters/in"
	adaptersout "clam-eye/adapters/out"
	"clam-eye/config"
	"clam-eye/domain/services"
	"clam-eye/domain/services/batch"
	"clam-eye/domain/services/cleanup"
	"clam-eye/domain/services/filters"
	"clam-eye/domain/services/lifecycle"
	"clam-eye/domain/services/notification"
	"clam-eye/domain/services/resolve"
	"clam-eye/domain/services/scan"
	clamhttp "clam-eye/http"
	"clam-eye/logging"
	"clam-eye/metrics"
	"context"
	"errors"
	"fmt"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/uber-go/tally/v4"
	"io"
	"net/http"
	"path/filepath"
	"time"
)

const (
	spoolDirName       = "clam-eye"
	maxParallelSpools  = 8
	statisticsInterval = 10 * time.Second
	shutdownTimeout    = 10 * time.Second
)

type Options struct {
	ConfigFile string
	Debug      bool
	Serve      bool // Exposes metrics through the HTTP server
}

// Orchestrator is one fully wired scanner instance.
type Orchestrator struct {
	Config     config.AppConfig
	Scanner    *services.ClamService
	Statistics *services.ScanStatisticsService
	Logger     logging.Logger

	metricsHandler http.Handler
	metricsClose   io.Closer
	scanLogClose   func() error
}

// Bootstrap loads the configuration and builds an orchestrator from it.
func Bootstrap(ctx context.Context, opts Options) (*Orchestrator, error) {
	appConfig, err := config.LoadConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	if opts.Debug {
		appConfig.Scanner.DebugLog = true
	}

	logger, err := logging.NewZapLogger(appConfig.Scanner.DebugLog)
	if err != nil {
		return nil, err
	}

	var metricsHandler http.Handler
	var metricsClose io.Closer

	metricsScope := metrics.NewNoopScope()
	if opts.Serve && appConfig.HTTPServer.Metrics {
		metricsScope, metricsHandler, metricsClose = metrics.NewPrometheusScope()
	}

	orchestrator, err := New(ctx, appConfig, logger, metricsScope)
	if err != nil {
		if metricsClose != nil {
			metricsClose.Close()
		}

		return nil, err
	}

	orchestrator.metricsHandler = metricsHandler
	orchestrator.metricsClose = metricsClose

	return orchestrator, nil
}

// New resolves the scanner options, brings the engine up and wires every service around it.
func New(ctx context.Context, appConfig config.AppConfig, logger logging.Logger, scope tally.Scope) (*Orchestrator, error) {
	fs := afero.NewOsFs()

	resolver := resolve.NewResolver(fs, adaptersout.NewClamdProbe(), logger)

	options, err := resolver.Resolve(ctx, appConfig.Scanner)
	if err != nil {
		return nil, err
	}

	scanLog, scanLogClose, err := logging.NewScanLogger(options.ScanLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open scan log %s. %w", options.ScanLog, err)
	}

	// Notifications
	aggregateStatistics := notification.NewAggregateStatistics(logger)
	metricsNotifier := notification.NewMetricsNotifier(scope)
	scanLogNotifier := notification.NewScanLogNotifier(scanLog, logger)
	notificationHandler := notification.NewNotificationHandler([]notification.Job{aggregateStatistics, metricsNotifier, scanLogNotifier}, logger)

	// Engine
	localStorageFactory := adaptersout.NewLocalStorageFactory(fs, filepath.Join(options.TempDir, spoolDirName), options.MaxStreamSize*maxParallelSpools)
	engineFactory := adaptersout.NewEngineFactory(scope, logger)
	lifecycleManager := lifecycle.NewLifecycleManager(engineFactory, localStorageFactory,
		[]cleanup.Job{cleanup.NewNotificationCleanup(notificationHandler)}, logger)

	handle, err := lifecycleManager.Init(ctx, options)
	if err != nil {
		if closeErr := scanLogClose(); closeErr != nil {
			logger.Warnw("Failed to close scan log", "path", options.ScanLog, "error", closeErr)
		}

		return nil, err
	}

	// Filters
	symlinkFilter := filters.NewSymlinkFilter(fs, options.FollowSymlinks, logger)
	hiddenFilter := filters.NewHiddenFilter(options.IncludeHidden, logger)
	excludeFilter := filters.NewExcludeFilter(options.Exclude, logger)
	filterHandler := filters.NewFilterHandler([]filters.Job{symlinkFilter, hiddenFilter, excludeFilter}, logger)

	// Scanners
	scanService := scan.NewScanService(fs, handle.Transport, localStorageFactory, notificationHandler, options, scope, logger)
	scanHandler := scan.NewScanHandler(scanService)
	batchService := batch.NewBatchService(fs, scanHandler, filterHandler, handle.Transport.Concurrency(), options.FileList, logger)

	notificationHandler.HandleAsync(ctx, statisticsInterval)

	logger.Infow("Scanner ready", "transport", handle.Transport.Name(), "engine", handle.Version.Engine,
		"signatures", handle.Version.Signatures, "demoted", options.Demoted)

	return &Orchestrator{
		Config:     appConfig,
		Scanner:    services.NewClamService(handle, scanService, batchService, logger),
		Statistics: services.NewScanStatisticsService(aggregateStatistics, logger),
		Logger:     logger,

		scanLogClose: scanLogClose,
	}, nil
}

// Close tears the engine down. It is safe to call more than once.
func (o *Orchestrator) Close(ctx context.Context) error {
	err := o.Scanner.Close(ctx)
	if errors.Is(err, services.ErrScannerClosed) {
		err = nil
	}

	if o.metricsClose != nil {
		if closeErr := o.metricsClose.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}

		o.metricsClose = nil
	}

	if o.scanLogClose != nil {
		if closeErr := o.scanLogClose(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}

		o.scanLogClose = nil
	}

	_ = o.Logger.Sync()

	return err
}

// Serve exposes the orchestrator over HTTP until ctx is done.
func (o *Orchestrator) Serve(ctx context.Context) error {
	app, err := o.NewFiberApp()
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()

		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			o.Logger.Errorw("Failed to stop http server", "error", err)
		}
	}()

	return app.Listen(fmt.Sprintf(":%d", o.Config.HTTPServer.Port))
}

func (o *Orchestrator) NewFiberApp() (*fiber.App, error) {
	scanController := adaptersin.NewScanController(o.Scanner, o.Logger)
	statisticsController := adaptersin.NewStatisticsController(o.Statistics, o.Logger)

	var metricsHandler fiber.Handler
	if o.metricsHandler != nil {
		metricsHandler = adaptor.HTTPHandler(o.metricsHandler)
	}

	fiberConfig := clamhttp.FiberConfig{
		MaxRequestSize:    o.Config.HTTPServer.MaxRequestSize,
		AuthorizationKeys: o.Config.HTTPServer.AuthorizationKeys,
		Profiler:          o.Config.HTTPServer.Profiler,
		Metrics:           metricsHandler,
		RequestLogger:     clamhttp.NewRequestLogger(o.Logger),
		Readiness: func(c *fiber.Ctx) error {
			if _, err := o.Scanner.Version(c.UserContext()); err != nil {
				o.Logger.Errorw("Engine not reachable in readiness.", "error", err)
				return c.Status(fiber.StatusServiceUnavailable).SendString(fmt.Sprintf("Engine not reachable. %s", err))
			}

			return c.SendStatus(fiber.StatusOK)
		},
		Liveness: func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		},
		Handlers: []clamhttp.Handler{
			{HTTPMethod: "GET", Path: "/version", HandlerFunc: scanController.Version},
			{HTTPMethod: "POST", Path: "/files", HandlerFunc: scanController.ScanFile},
			{HTTPMethod: "POST", Path: "/scan/file", HandlerFunc: scanController.IsInfected},
			{HTTPMethod: "POST", Path: "/scan/files", HandlerFunc: scanController.ScanFiles},
			{HTTPMethod: "POST", Path: "/scan/dir", HandlerFunc: scanController.ScanDir},
			{HTTPMethod: "GET", Path: "/statistics", HandlerFunc: statisticsController.GetStatistics},
			{HTTPMethod: "GET", Path: "/statistics/viruses/:name", HandlerFunc: statisticsController.GetVirusCount},
		},
	}

	app, err := clamhttp.CreateFiberApp(fiberConfig, o.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize fiber framework. Error: %s", err)
	}

	return app, nil
}
