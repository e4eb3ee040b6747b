// Package ioextract downloads indicator observations from the World Bank
// API.
package ioextract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	agrietl "github.com/gnames/agrietl/pkg"
	"github.com/gnames/agrietl/pkg/catalog"
	"github.com/gnames/agrietl/pkg/config"
	"github.com/gnames/agrietl/pkg/record"
	"github.com/gnames/gn"
	json "github.com/goccy/go-json"
)

// Extractor requests every catalog indicator for all catalog entities.
type Extractor struct {
	baseURL    string
	entities   []string
	indicators []catalog.Indicator
	yearStart  int
	yearEnd    int
	perPage    int
	delay      time.Duration

	client   *http.Client
	progress bool
}

// Option modifies an Extractor.
type Option func(*Extractor)

// OptHTTPClient replaces the default HTTP client.
func OptHTTPClient(c *http.Client) Option {
	return func(e *Extractor) {
		if c != nil {
			e.client = c
		}
	}
}

// OptProgressBar shows progress of indicator requests on STDERR.
func OptProgressBar(b bool) Option {
	return func(e *Extractor) {
		e.progress = b
	}
}

// New creates an Extractor from extraction settings and a catalog.
func New(
	cfg *config.Config,
	cat *catalog.Catalog,
	opts ...Option,
) *Extractor {
	res := &Extractor{
		baseURL:    cfg.Extract.BaseURL,
		entities:   cat.EntityCodes(),
		indicators: cat.Indicators,
		yearStart:  cfg.Extract.YearStart,
		yearEnd:    cfg.Extract.YearEnd,
		perPage:    cfg.Extract.PerPage,
		delay:      cfg.Extract.RequestDelay,
		client:     &http.Client{Timeout: cfg.Extract.Timeout},
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Extract fetches records of all indicators. A failed indicator is logged
// and contributes no records. It is an error when no indicator returned
// any records.
func (e *Extractor) Extract(ctx context.Context) ([]record.RawEntry, error) {
	var res []record.RawEntry
	var failed, empty int

	slog.Info("Beginning data extraction",
		"entities", len(e.entities),
		"indicators", len(e.indicators),
		"years", fmt.Sprintf("%d:%d", e.yearStart, e.yearEnd),
	)

	var bar *pb.ProgressBar
	if e.progress {
		bar = pb.Full.Start(len(e.indicators))
		bar.Set("prefix", "Fetching indicators: ")
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	for i, ind := range e.indicators {
		if i > 0 {
			if err := sleep(ctx, e.delay); err != nil {
				return nil, CancelledError(err)
			}
		}

		slog.Info("Fetching indicator", "code", ind.Code, "name", ind.Name)
		entries, err := e.fetchIndicator(ctx, ind.Code)
		if bar != nil {
			bar.Increment()
		}

		if ctx.Err() != nil {
			return nil, CancelledError(ctx.Err())
		}
		if err != nil {
			failed++
			slog.Error("Cannot fetch indicator", "code", ind.Code, "error", err)
			continue
		}
		if len(entries) == 0 {
			empty++
			slog.Warn("No data returned for indicator", "code", ind.Code)
			continue
		}

		slog.Debug("Indicator fetched", "code", ind.Code, "records", len(entries))
		res = append(res, entries...)
	}

	slog.Info("Data extraction completed",
		"records", len(res),
		"failed", failed,
		"empty", empty,
	)

	if len(res) == 0 {
		slog.Error("Extraction failed. No data was retrieved from the API")
		return nil, NoDataError(len(e.indicators), len(e.entities))
	}

	gn.Info(
		"Extracted <em>%s</em> records for %d indicators (%d failed, %d empty)",
		humanize.Comma(int64(len(res))), len(e.indicators), failed, empty,
	)
	return res, nil
}

// fetchIndicator reads all pages of one indicator. If any page fails the
// whole indicator fails.
func (e *Extractor) fetchIndicator(
	ctx context.Context,
	code string,
) ([]record.RawEntry, error) {
	var res []record.RawEntry

	pages := 1
	for page := 1; page <= pages; page++ {
		if page > 1 {
			if err := sleep(ctx, e.delay); err != nil {
				return nil, err
			}
		}

		meta, entries, err := e.fetchPage(ctx, code, page)
		if err != nil {
			return nil, err
		}
		res = append(res, entries...)

		if page == 1 {
			pages = meta.pageCount()
			if pages > 1 {
				slog.Debug("Indicator has several pages", "code", code, "pages", pages)
			}
		}
	}
	return res, nil
}

func (e *Extractor) fetchPage(
	ctx context.Context,
	code string,
	page int,
) (metadata, []record.RawEntry, error) {
	var meta metadata

	u := e.pageURL(code, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return meta, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "agrietl/"+agrietl.Version)

	resp, err := e.client.Do(req)
	if err != nil {
		return meta, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return meta, nil, &statusError{status: resp.StatusCode, url: u}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return meta, nil, err
	}
	return decodePage(body)
}

func (e *Extractor) pageURL(code string, page int) string {
	return fmt.Sprintf(
		"%s/country/%s/indicator/%s?format=json&date=%d:%d&per_page=%d&page=%d",
		e.baseURL,
		strings.Join(e.entities, ";"),
		url.PathEscape(code),
		e.yearStart, e.yearEnd,
		e.perPage, page,
	)
}

// metadata is the first element of the response envelope.
type metadata struct {
	Page  any `json:"page"`
	Pages any `json:"pages"`
	Total any `json:"total"`

	// Message is set instead of paging data when the API rejects a
	// request.
	Message []struct {
		ID    string `json:"id"`
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"message"`
}

// pageCount returns the number of pages, the API sends it either as a
// number or as a string.
func (m metadata) pageCount() int {
	res := 1
	switch v := m.Pages.(type) {
	case float64:
		res = int(v)
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			res = i
		}
	}
	if res < 1 {
		res = 1
	}
	return res
}

// decodePage parses the [metadata, records] envelope. A missing or null
// records element gives no entries and no error.
func decodePage(body []byte) (metadata, []record.RawEntry, error) {
	var meta metadata
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return meta, nil, fmt.Errorf("malformed response: %w", err)
	}
	if len(envelope) == 0 {
		return meta, nil, nil
	}

	if err := json.Unmarshal(envelope[0], &meta); err != nil {
		return meta, nil, fmt.Errorf("malformed response metadata: %w", err)
	}
	if len(meta.Message) > 0 {
		m := meta.Message[0]
		return meta, nil, fmt.Errorf("API message %s: %s %s", m.ID, m.Key, m.Value)
	}

	if len(envelope) < 2 {
		return meta, nil, nil
	}

	var res []record.RawEntry
	if err := json.Unmarshal(envelope[1], &res); err != nil {
		return meta, nil, fmt.Errorf("malformed response records: %w", err)
	}
	return meta, res, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
