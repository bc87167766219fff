package app

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/common"
	"github.com/ternarybob/marketbrief/internal/services/analyzer"
	"github.com/ternarybob/marketbrief/internal/services/chart"
	"github.com/ternarybob/marketbrief/internal/services/collector"
	"github.com/ternarybob/marketbrief/internal/services/content"
	"github.com/ternarybob/marketbrief/internal/services/mailer"
	"github.com/ternarybob/marketbrief/internal/services/pipeline"
	"github.com/ternarybob/marketbrief/internal/services/report"
	"github.com/ternarybob/marketbrief/internal/services/scheduler"
	"github.com/ternarybob/marketbrief/internal/yahoo"
)

// App holds all application components and dependencies
type App struct {
	Config    *common.Config
	Logger    arbor.ILogger
	Pipeline  *pipeline.Service
	Mailer    *mailer.Service
	Scheduler *scheduler.Service
}

// New wires the service graph from the resolved configuration.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	timeout, err := config.ProviderTimeout()
	if err != nil {
		return nil, err
	}

	clientOpts := []yahoo.ClientOption{
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Provider.RateLimit),
	}
	if config.Provider.BaseURL != "" {
		clientOpts = append(clientOpts, yahoo.WithBaseURL(config.Provider.BaseURL))
	}
	quoteClient := yahoo.NewClient(clientOpts...)

	collectorSvc := collector.NewService(quoteClient, config.Indices, config.Provider.RangeDays, timeout, logger)
	analyzerSvc := analyzer.NewService(logger)
	contentSvc := content.NewService(logger)
	chartSvc := chart.NewService(logger)
	reportSvc := report.NewService(logger)
	mailerSvc := mailer.NewService(config.Mail, logger)

	pipelineSvc := pipeline.NewService(
		collectorSvc,
		analyzerSvc,
		contentSvc,
		chartSvc,
		reportSvc,
		mailerSvc,
		config.Mail.Recipients,
		logger,
	)

	schedulerSvc := scheduler.NewService(pipelineSvc.Run, logger)

	return &App{
		Config:    config,
		Logger:    logger,
		Pipeline:  pipelineSvc,
		Mailer:    mailerSvc,
		Scheduler: schedulerSvc,
	}, nil
}

// RunOnce executes a single report run and returns true on success.
func (a *App) RunOnce(ctx context.Context) bool {
	return a.Pipeline.Run(ctx)
}

// Close stops the scheduler if it is running.
func (a *App) Close() {
	a.Scheduler.Stop()
}
