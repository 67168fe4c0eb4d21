package server

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/sheet-ledger/internal/analytics"
	"fjacquet/sheet-ledger/internal/dateutils"
	"fjacquet/sheet-ledger/internal/ledger"
	"fjacquet/sheet-ledger/internal/report"
	"fjacquet/sheet-ledger/internal/sheets"
)

// SourceParams optionally override the configured sheet.
type SourceParams struct {
	SheetURL string `query:"sheet_url" validate:"omitempty,url"`
	Tab      string `query:"tab" validate:"omitempty,max=100"`
}

// DashboardParams are the query parameters accepted by the read endpoints.
type DashboardParams struct {
	SourceParams
	Preset     string   `query:"preset" validate:"omitempty,oneof=this-month last-3-months year-to-date all custom"`
	Start      string   `query:"start" validate:"omitempty,max=32"`
	End        string   `query:"end" validate:"omitempty,max=32"`
	Types      []string `query:"type" validate:"omitempty,max=2,dive,oneof=income expense Income Expense"`
	Categories []string `query:"category" validate:"omitempty,max=100,dive,max=200"`
	Search     string   `query:"search" validate:"omitempty,max=200"`
	Limit      int      `query:"limit" validate:"min=0,max=1000"`
}

func (p SourceParams) apply(src sheets.Source) sheets.Source {
	if p.SheetURL != "" {
		src.URL = p.SheetURL
		src.Path = ""
	}
	if p.Tab != "" {
		src.Tab = p.Tab
	}
	return src
}

// toQuery converts validated parameters into a report query for today.
func (p DashboardParams) toQuery(today time.Time, defaultLimit int) (report.Query, error) {
	q := report.Query{
		Preset:   analytics.Preset(p.Preset),
		Today:    today,
		TopLimit: p.Limit,
		Filter: analytics.Filter{
			Categories: p.Categories,
			Search:     p.Search,
		},
	}
	if q.TopLimit == 0 {
		q.TopLimit = defaultLimit
	}

	for _, raw := range p.Types {
		t, ok := ledger.ParseType(raw)
		if !ok {
			return report.Query{}, fmt.Errorf("invalid type %q", raw)
		}
		q.Filter.Types = append(q.Filter.Types, t)
	}

	if strings.TrimSpace(p.Start) != "" {
		start, err := dateutils.ParseDayFirst(p.Start)
		if err != nil {
			return report.Query{}, fmt.Errorf("invalid start date %q: expected DD-MM-YYYY", p.Start)
		}
		q.Start = &start
	}
	if strings.TrimSpace(p.End) != "" {
		end, err := dateutils.ParseDayFirst(p.End)
		if err != nil {
			return report.Query{}, fmt.Errorf("invalid end date %q: expected DD-MM-YYYY", p.End)
		}
		q.End = &end
	}
	return q, nil
}
