// Package incomehttp exposes the income dashboard and report exports over
// HTTP.
package incomehttp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tillstack/tillstack/internal/income"
	"github.com/tillstack/tillstack/internal/income/export"
	"github.com/tillstack/tillstack/internal/platform/httpx"
)

// IncomeService defines the engine contract used by the handler.
type IncomeService interface {
	GetDashboard(ctx context.Context, f income.Filter) (income.Dashboard, error)
	GetReport(ctx context.Context, sel income.Selector, f income.Filter) income.Report
	BusinessName(ctx context.Context) string
}

// ExportObserver counts completed exports, by format.
type ExportObserver interface {
	ObserveExport(format string)
}

// Handler coordinates HTTP requests for the income dashboard.
type Handler struct {
	logger   *slog.Logger
	service  IncomeService
	metrics  ExportObserver
	validate *validator.Validate
	now      func() time.Time
}

// NewHandler constructs the income HTTP handler. metrics may be nil.
func NewHandler(logger *slog.Logger, service IncomeService, metrics ExportObserver) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		metrics:  metrics,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// filterQuery is the validated shape of the shared filter query parameters.
type filterQuery struct {
	Range    string `validate:"omitempty,oneof=today week month year custom"`
	From     string `validate:"omitempty,datetime=2006-01-02"`
	To       string `validate:"omitempty,datetime=2006-01-02"`
	Source   string `validate:"omitempty,oneof=all pos appointment booking product service"`
	Method   string `validate:"omitempty,oneof=all Cash UPI Card 'Bank Transfer'"`
	Selector string `validate:"omitempty,oneof=overall pos appointment booking product service"`
}

func (h *Handler) parseFilter(r *http.Request) (income.Filter, income.Selector, error) {
	q := r.URL.Query()
	fq := filterQuery{
		Range:    q.Get("range"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Source:   q.Get("source"),
		Method:   q.Get("method"),
		Selector: q.Get("selector"),
	}
	if err := h.validate.Struct(fq); err != nil {
		return income.Filter{}, "", fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	f := income.Filter{Range: income.DateRange{Kind: income.RangeToday}}
	if fq.Range != "" {
		f.Range.Kind = income.RangeKind(fq.Range)
	}
	if f.Range.Kind == income.RangeCustom {
		if fq.From != "" {
			f.Range.From, _ = time.Parse("2006-01-02", fq.From)
		}
		if fq.To != "" {
			f.Range.To, _ = time.Parse("2006-01-02", fq.To)
		}
	}
	if fq.Source != "" && fq.Source != "all" {
		f.Source = income.Source(fq.Source)
	}
	if fq.Method != "" && fq.Method != "all" {
		f.Method = income.PaymentMethod(fq.Method)
	}

	sel := income.SelectorOverall
	if fq.Selector != "" {
		sel = income.Selector(fq.Selector)
	}
	return f, sel, nil
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	f, _, err := h.parseFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dash, err := h.service.GetDashboard(r.Context(), f)
	if err != nil {
		h.logger.Error("income: load dashboard", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	f, sel, err := h.parseFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	report := h.service.GetReport(r.Context(), sel, f)
	httpx.JSON(w, http.StatusOK, report)
}

// exportFormat describes one downloadable representation of a report.
type exportFormat struct {
	ext   string
	mime  string
	write func(w *bytes.Buffer, report income.Report, businessName string) error
}

var exportFormats = map[string]exportFormat{
	"csv": {"csv", export.MIMECSV, func(w *bytes.Buffer, rep income.Report, name string) error {
		return export.WriteCSV(w, rep, name)
	}},
	"xls": {"xls", export.MIMEXLS, func(w *bytes.Buffer, rep income.Report, name string) error {
		return export.WriteXLS(w, rep, name)
	}},
	"xlsx": {"xlsx", export.MIMEXLSX, func(w *bytes.Buffer, rep income.Report, name string) error {
		return export.WriteXLSX(w, rep, name)
	}},
	"pdf": {"pdf", export.MIMEPDF, func(w *bytes.Buffer, rep income.Report, name string) error {
		return export.WritePDF(w, rep, name)
	}},
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format, ok := exportFormats[chi.URLParam(r, "format")]
	if !ok {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown export format")
		return
	}
	f, sel, err := h.parseFilter(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	report := h.service.GetReport(r.Context(), sel, f)
	businessName := h.service.BusinessName(r.Context())

	buf := &bytes.Buffer{}
	if err := format.write(buf, report, businessName); err != nil {
		h.logger.Error("income: export failed",
			slog.String("format", format.ext), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Export Failed", "")
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveExport(format.ext)
	}

	filename := fmt.Sprintf("%s.%s", export.Filename(businessName, sel, h.now()), format.ext)
	w.Header().Set("Content-Type", format.mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
