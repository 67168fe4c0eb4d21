// Package server exposes dashboards over a read-only JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fjacquet/sheet-ledger/internal/dateutils"
	"fjacquet/sheet-ledger/internal/ledger"
	"fjacquet/sheet-ledger/internal/loader"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/parsererror"
	"fjacquet/sheet-ledger/internal/report"
	"fjacquet/sheet-ledger/internal/sheets"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ExportFileName is the attachment name of the CSV download.
const ExportFileName = "transactions_selected.csv"

var queryBinder = &echo.DefaultBinder{}

// Options tune a Server. Zero values fall back to sensible defaults.
type Options struct {
	Location  *time.Location
	TopLimit  int
	Delimiter rune
	Metrics   http.Handler
	Now       func() time.Time
}

// Server serves dashboards for one configured source.
type Server struct {
	echo   *echo.Echo
	loader *loader.Loader
	source sheets.Source
	opts   Options
	logger logging.Logger
}

// New creates a Server reading src through l.
func New(l *loader.Loader, src sheets.Source, opts Options, logger logging.Logger) *Server {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		echo:   echo.New(),
		loader: l,
		source: src,
		opts:   opts,
		logger: logging.OrDefault(logger).WithField(logging.FieldComponent, logging.ComponentServer),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Validator = NewValidator()
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.requestLogger)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.health)
	if s.opts.Metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.opts.Metrics))
	}

	api := s.echo.Group("/api")
	api.GET("/dashboard", s.dashboard)
	api.GET("/transactions.csv", s.exportCSV)
	api.POST("/refresh", s.refresh)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting HTTP server", logging.F(logging.FieldAddress, addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
		}
		s.logger.Debug("Handled request",
			logging.F(logging.FieldURL, c.Request().URL.Path),
			logging.F(logging.FieldStatus, status),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
		return err
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   s.opts.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) dashboard(c echo.Context) error {
	params, err := s.bindParams(c)
	if err != nil {
		return err
	}

	res, err := s.loader.Load(c.Request().Context(), params.apply(s.source))
	if err != nil {
		return s.loadError(err)
	}

	q, err := params.toQuery(s.today(), s.opts.TopLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	d, err := report.Build(c.Request().Context(), res.Ledger, q)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.LastRefreshed = res.FetchedAt.In(s.opts.Location)

	return c.JSON(http.StatusOK, d)
}

func (s *Server) exportCSV(c echo.Context) error {
	params, err := s.bindParams(c)
	if err != nil {
		return err
	}

	res, err := s.loader.Load(c.Request().Context(), params.apply(s.source))
	if err != nil {
		return s.loadError(err)
	}

	q, err := params.toQuery(s.today(), s.opts.TopLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sel, err := report.Select(res.Ledger, q)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+ExportFileName+`"`)
	resp.WriteHeader(http.StatusOK)

	if err := ledger.WriteCSVWithBalance(resp, sel.Ledger, sel.Balances, s.opts.Delimiter); err != nil {
		s.logger.WithError(err).Error("Failed to write CSV export")
		return err
	}
	return nil
}

func (s *Server) refresh(c echo.Context) error {
	var params SourceParams
	if err := queryBinder.BindQueryParams(c, &params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if c.QueryParam("all") == "true" {
		n := s.loader.RefreshAll()
		return c.JSON(http.StatusOK, map[string]interface{}{"refreshed": n > 0, "dropped": n})
	}

	dropped := s.loader.Refresh(params.apply(s.source))
	n := 0
	if dropped {
		n = 1
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"refreshed": dropped, "dropped": n})
}

func (s *Server) bindParams(c echo.Context) (DashboardParams, error) {
	var params DashboardParams
	if err := queryBinder.BindQueryParams(c, &params); err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&params); err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return params, nil
}

// loadError maps a load failure to a status code. Sheet validation errors
// keep their message verbatim so users can fix the sheet.
func (s *Server) loadError(err error) error {
	var srcErr *parsererror.InvalidSourceError
	var fetchErr *parsererror.FetchError
	var formatErr *parsererror.InvalidFormatError
	switch {
	case parsererror.IsNormalizationError(err), errors.As(err, &formatErr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &srcErr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &fetchErr):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		s.logger.WithError(err).Error("Failed to load ledger")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load ledger")
	}
}

func (s *Server) today() time.Time {
	return dateutils.Truncate(s.opts.Now().In(s.opts.Location))
}
