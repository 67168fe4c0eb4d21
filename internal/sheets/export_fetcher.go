package sheets

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"fjacquet/sheet-ledger/internal/ledger"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/parsererror"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single export request.
const DefaultTimeout = 30 * time.Second

// errHTMLResponse is returned when Google serves a sign-in or error page
// instead of CSV, which happens for sheets that are not shared publicly.
var errHTMLResponse = errors.New("received an HTML page instead of CSV; check that the sheet is shared with 'Anyone with the link'")

// CSVExportFetcher downloads the public CSV export of a sheet tab.
type CSVExportFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	logger  logging.Logger
}

// ExportOption customises a CSVExportFetcher.
type ExportOption func(*CSVExportFetcher)

// WithBaseURL overrides the export host, mainly for tests.
func WithBaseURL(baseURL string) ExportOption {
	return func(f *CSVExportFetcher) {
		f.baseURL = baseURL
	}
}

// WithHTTPClient replaces the HTTP client. The client's timeout is kept as is.
func WithHTTPClient(client *http.Client) ExportOption {
	return func(f *CSVExportFetcher) {
		f.client = client
	}
}

// NewCSVExportFetcher creates a fetcher with the given request timeout and a
// limit of requestsPerMinute outgoing requests. A non-positive limit disables
// rate limiting.
func NewCSVExportFetcher(logger logging.Logger, timeout time.Duration, requestsPerMinute int, opts ...ExportOption) *CSVExportFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}

	f := &CSVExportFetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		baseURL: DefaultBaseURL,
		logger:  logging.OrDefault(logger).WithField(logging.FieldComponent, logging.ComponentFetcher),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads and parses the export for src.
func (f *CSVExportFetcher) Fetch(ctx context.Context, src Source) (ledger.RawTable, error) {
	exportURL, err := buildExportURL(f.baseURL, src.URL, src.TabOrDefault())
	if err != nil {
		return ledger.RawTable{}, err
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return ledger.RawTable{}, &parsererror.FetchError{URL: exportURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return ledger.RawTable{}, &parsererror.FetchError{URL: exportURL, Err: err}
	}

	start := time.Now()
	f.logger.Debug("Fetching sheet export", logging.F(logging.FieldURL, exportURL))

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.WithError(err).Warn("Sheet export request failed", logging.F(logging.FieldURL, exportURL))
		return ledger.RawTable{}, &parsererror.FetchError{URL: exportURL, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.WithError(cerr).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Warn("Sheet export returned an error status",
			logging.F(logging.FieldURL, exportURL),
			logging.F(logging.FieldStatus, resp.StatusCode))
		return ledger.RawTable{}, &parsererror.FetchError{URL: exportURL, StatusCode: resp.StatusCode}
	}

	if isHTML(resp.Header.Get("Content-Type")) {
		return ledger.RawTable{}, &parsererror.FetchError{URL: exportURL, Err: errHTMLResponse}
	}

	table, err := ledger.ReadCSV(resp.Body, ',')
	if err != nil {
		return ledger.RawTable{}, fmt.Errorf("failed to read export of %s: %w", src, err)
	}

	f.logger.Debug("Fetched sheet export",
		logging.F(logging.FieldURL, exportURL),
		logging.F(logging.FieldRows, len(table.Rows)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return table, nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/html"
}
