package admin

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cppla/webblog/models"
)

type ReportBackend interface {
	ListReports(ctx context.Context) ([]models.Report, error)
	UpdateReportStatus(ctx context.Context, id int64, status models.ReportStatus) (*models.Report, error)
	DeleteReport(ctx context.Context, id int64) error
}

// Reports is the moderation queue panel.
type Reports struct {
	mu      sync.RWMutex
	reports []models.Report
	log     *zap.Logger
}

// ReportRow is a report with its badge text.
type ReportRow struct {
	models.Report
	StatusLabel string `json:"statusLabel"`
}

func (r *Reports) Load(ctx context.Context, be ReportBackend) error {
	list, err := be.ListReports(ctx)
	if err != nil {
		r.log.Warn("load reports failed", zap.Error(err))
		return err
	}
	r.mu.Lock()
	r.reports = list
	r.mu.Unlock()
	return nil
}

func (r *Reports) Rows() []ReportRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ReportRow, 0, len(r.reports))
	for _, rep := range r.reports {
		rep.Status = rep.Status.Normalize()
		out = append(out, ReportRow{Report: rep, StatusLabel: rep.Status.Label()})
	}
	return out
}

// SetStatus moves a report to status and replaces the row with the server's report.
func (r *Reports) SetStatus(ctx context.Context, be ReportBackend, id int64, status models.ReportStatus) (*models.Report, error) {
	updated, err := be.UpdateReportStatus(ctx, id, status)
	if err != nil {
		r.log.Info("update report status rejected", zap.Int64("report", id), zap.Error(err))
		return nil, err
	}
	r.mu.Lock()
	for i := range r.reports {
		if r.reports[i].ID == id {
			r.reports[i] = *updated
		}
	}
	r.mu.Unlock()
	return updated, nil
}

// remove is best-effort: some backends refuse report deletion, and then the list stays as is.
func (r *Reports) remove(ctx context.Context, be ReportBackend, id int64) error {
	if err := be.DeleteReport(ctx, id); err != nil {
		r.log.Info("delete report rejected", zap.Int64("report", id), zap.Error(err))
		return err
	}
	r.mu.Lock()
	kept := make([]models.Report, 0, len(r.reports))
	for _, rep := range r.reports {
		if rep.ID != id {
			kept = append(kept, rep)
		}
	}
	r.reports = kept
	r.mu.Unlock()
	return nil
}
