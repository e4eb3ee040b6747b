package ioextract_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gnames/agrietl/internal/ioextract"
	"github.com/gnames/agrietl/pkg/catalog"
	"github.com/gnames/agrietl/pkg/config"
	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(code string, pages int, values ...string) string {
	var recs []string
	for i, v := range values {
		recs = append(recs, fmt.Sprintf(
			`{"indicator":{"id":%q,"value":"x"},"country":{"id":"NG","value":"Nigeria"},`+
				`"countryiso3code":"NGA","date":"%d","value":%s,"unit":"","obs_status":"","decimal":0}`,
			code, 2000+i, v,
		))
	}
	return fmt.Sprintf(
		`[{"page":1,"pages":%d,"per_page":"1000","total":%d},[%s]]`,
		pages, len(values), strings.Join(recs, ","),
	)
}

// indicatorCode returns the code from /country/{codes}/indicator/{code}.
func indicatorCode(r *http.Request) string {
	parts := strings.Split(r.URL.Path, "/")
	return parts[len(parts)-1]
}

type server struct {
	mu       sync.Mutex
	requests []*http.Request
	handler  func(w http.ResponseWriter, r *http.Request)
}

func newServer(t *testing.T, h func(w http.ResponseWriter, r *http.Request)) (*server, *config.Config) {
	s := &server{handler: h}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r)
		s.mu.Unlock()
		s.handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptExtractBaseURL(srv.URL),
		config.OptExtractRequestDelay(0),
	})
	return s, cfg
}

func TestExtractAll(t *testing.T) {
	cat := catalog.Default()
	s, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		code := indicatorCode(r)
		fmt.Fprint(w, page(code, 1, "1.5", "null"))
	})

	ext := ioextract.New(cfg, cat)
	res, err := ext.Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, res, 2*len(cat.Indicators))
	assert.Len(t, s.requests, len(cat.Indicators))

	r := s.requests[0]
	assert.Equal(t,
		"/country/"+strings.Join(cat.EntityCodes(), ";")+"/indicator/AG.PRD.FOOD.XD",
		r.URL.Path,
	)
	q := r.URL.Query()
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "1999:2022", q.Get("date"))
	assert.Equal(t, "1000", q.Get("per_page"))
	assert.Equal(t, "1", q.Get("page"))

	assert.Equal(t, "AG.PRD.FOOD.XD", res[0].Indicator.ID)
	assert.Equal(t, "NGA", res[0].CountryISO3Code)
	assert.Equal(t, 1.5, res[0].Value)
	assert.Nil(t, res[1].Value)
}

func TestExtractSkipsFailedIndicator(t *testing.T) {
	cat := catalog.Default()
	_, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		code := indicatorCode(r)
		if code == "NY.GDP.PCAP.CD" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, page(code, 1, "10"))
	})

	res, err := ioextract.New(cfg, cat).Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, res, len(cat.Indicators)-1)
	for _, v := range res {
		assert.NotEqual(t, "NY.GDP.PCAP.CD", v.Indicator.ID)
	}
}

func TestExtractBadResponses(t *testing.T) {
	cat := &catalog.Catalog{
		Entities: []catalog.Entity{{Code: "NGA", Name: "Nigeria"}},
		Indicators: []catalog.Indicator{
			{Code: "GOOD", Column: "good"},
			{Code: "MALFORMED", Column: "malformed"},
			{Code: "NOREC", Column: "norec"},
			{Code: "NULLREC", Column: "nullrec"},
			{Code: "MESSAGE", Column: "message"},
			{Code: "NOTFOUND", Column: "notfound"},
		},
	}
	_, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch code := indicatorCode(r); code {
		case "GOOD":
			fmt.Fprint(w, page(code, 1, "3", "4"))
		case "MALFORMED":
			fmt.Fprint(w, `[{"page":1},[{"indicator":`)
		case "NOREC":
			fmt.Fprint(w, `[{"page":1,"pages":0}]`)
		case "NULLREC":
			fmt.Fprint(w, `[{"page":1,"pages":0,"total":0},null]`)
		case "MESSAGE":
			fmt.Fprint(w, `[{"message":[{"id":"120","key":"Invalid value","value":"x"}]}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	res, err := ioextract.New(cfg, cat).Extract(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "GOOD", res[0].Indicator.ID)
}

func TestExtractPages(t *testing.T) {
	cat := &catalog.Catalog{
		Entities:   []catalog.Entity{{Code: "NGA"}, {Code: "GHA"}},
		Indicators: []catalog.Indicator{{Code: "SP.POP.TOTL", Column: "population_total"}},
	}
	s, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		code := indicatorCode(r)
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, page(code, 3, "1", "2"))
		case "2":
			fmt.Fprint(w, page(code, 3, "3"))
		default:
			fmt.Fprint(w, page(code, 3, "4"))
		}
	})

	res, err := ioextract.New(cfg, cat).Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, res, 4)
	require.Len(t, s.requests, 3)
	assert.Equal(t, "3", s.requests[2].URL.Query().Get("page"))
	assert.Equal(t, "/country/NGA;GHA/indicator/SP.POP.TOTL", s.requests[0].URL.Path)
}

func TestExtractFailedPageDropsIndicator(t *testing.T) {
	cat := &catalog.Catalog{
		Entities: []catalog.Entity{{Code: "NGA"}},
		Indicators: []catalog.Indicator{
			{Code: "PAGED", Column: "paged"},
			{Code: "SINGLE", Column: "single"},
		},
	}
	_, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		code := indicatorCode(r)
		if code == "PAGED" && r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, page(code, map[string]int{"PAGED": 2, "SINGLE": 1}[code], "1"))
	})

	res, err := ioextract.New(cfg, cat).Extract(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "SINGLE", res[0].Indicator.ID)
}

func TestExtractNoData(t *testing.T) {
	cat := catalog.Default()
	_, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if indicatorCode(r) == "SP.POP.TOTL" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `[{"page":1,"pages":0,"total":0},[]]`)
	})

	_, err := ioextract.New(cfg, cat).Extract(context.Background())
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ExtractNoDataError, gnErr.Code)
	assert.Equal(t, []any{len(cat.Indicators), len(cat.Entities)}, gnErr.Vars)
}

func TestExtractCancelled(t *testing.T) {
	cat := catalog.Default()
	ctx, cancel := context.WithCancel(context.Background())
	s, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		cancel()
		fmt.Fprint(w, page(indicatorCode(r), 1, "1"))
	})

	_, err := ioextract.New(cfg, cat).Extract(ctx)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ExtractCancelledError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, context.Canceled)
	assert.Len(t, s.requests, 1)
}

func TestOptHTTPClient(t *testing.T) {
	cat := &catalog.Catalog{
		Entities:   []catalog.Entity{{Code: "NGA"}},
		Indicators: []catalog.Indicator{{Code: "X", Column: "x"}},
	}
	var used bool
	client := &http.Client{Transport: roundTripper(func(r *http.Request) (*http.Response, error) {
		used = true
		return http.DefaultTransport.RoundTrip(r)
	})}
	_, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page("X", 1, "1"))
	})

	res, err := ioextract.New(cfg, cat, ioextract.OptHTTPClient(client)).
		Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.True(t, used)
}

type roundTripper func(*http.Request) (*http.Response, error)

func (f roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
