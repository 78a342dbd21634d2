package cron

import (
	"context"
	"errors"
	"sort"

	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

const LowStockReportJobName = "low_stock_report"

type alertSource interface {
	Alerts() []ops.LowStockAlert
}

// LowStockReport is the per-store summary a report run produces.
type LowStockReport struct {
	Store    string
	Low      int
	Critical int
}

// LowStockReportJob logs one line per store that has low or critical stock.
type LowStockReportJob struct {
	source alertSource
	logg   *logger.Logger
}

func NewLowStockReportJob(source alertSource, logg *logger.Logger) (*LowStockReportJob, error) {
	if source == nil {
		return nil, errors.New("alert source required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &LowStockReportJob{source: source, logg: logg}, nil
}

func (j *LowStockReportJob) Name() string { return LowStockReportJobName }

func (j *LowStockReportJob) Run(ctx context.Context) error {
	for _, report := range summarizeAlerts(j.source.Alerts()) {
		fields := map[string]any{
			"store":    report.Store,
			"low":      report.Low,
			"critical": report.Critical,
		}
		if report.Critical > 0 {
			j.logg.Warn(j.logg.WithFields(ctx, fields), "store has critical stock")
			continue
		}
		j.logg.Info(j.logg.WithFields(ctx, fields), "store has low stock")
	}
	return nil
}

func summarizeAlerts(alerts []ops.LowStockAlert) []LowStockReport {
	byStore := map[string]*LowStockReport{}
	for _, alert := range alerts {
		report, ok := byStore[alert.Store]
		if !ok {
			report = &LowStockReport{Store: alert.Store}
			byStore[alert.Store] = report
		}
		if alert.Status == enums.StockStatusCritical {
			report.Critical++
		} else {
			report.Low++
		}
	}
	reports := make([]LowStockReport, 0, len(byStore))
	for _, report := range byStore {
		reports = append(reports, *report)
	}
	sort.Slice(reports, func(i, k int) bool { return reports[i].Store < reports[k].Store })
	return reports
}
