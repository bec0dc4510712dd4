package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alienstore/storefront-gateway/config"
	"github.com/alienstore/storefront-gateway/internal/app/service"
	"github.com/alienstore/storefront-gateway/pkg/logger"
)

// ReportScheduler exports the orders workbook on a cron schedule.
type ReportScheduler struct {
	cron          *cron.Cron
	reportService service.ReportService
	cfg           config.ReportConfig
}

func NewReportScheduler(reportService service.ReportService, cfg config.ReportConfig) *ReportScheduler {
	return &ReportScheduler{
		cron:          cron.New(),
		reportService: reportService,
		cfg:           cfg,
	}
}

func (s *ReportScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.CronSpec, func() {
		logger.Info("Starting scheduled orders report export", nil)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		// The nightly run has no admin session, so only locally recorded
		// orders are exported.
		url, err := s.reportService.Export(ctx, "")
		if err != nil {
			logger.Error("Failed to export scheduled orders report", err)
			return
		}

		logger.Info("Scheduled orders report exported", map[string]interface{}{
			"url": url,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for orders report", err)
		return err
	}

	s.cron.Start()
	logger.Info("Report scheduler started successfully", map[string]interface{}{
		"spec": s.cfg.CronSpec,
	})
	return nil
}

func (s *ReportScheduler) Stop() {
	logger.Info("Stopping report scheduler...", nil)
	s.cron.Stop()
	logger.Info("Report scheduler stopped", nil)
}
