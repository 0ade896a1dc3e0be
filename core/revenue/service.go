// Package revenue tracks monthly revenue and costs per source.
package revenue

import (
	"bytes"
	"context"
	"slices"
	"sort"
	"time"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/chart"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/records"
)

const Resource = "revenue entry"

const monthLayout = "2006-01"

type Repository = core.Repository[Entry]

var Schema = listing.Schema[Entry]{
	Resource: "revenue",
	Search: []func(Entry) string{
		func(e Entry) string { return e.Source },
		func(e Entry) string { return e.Description },
	},
	Filters: map[string]func(Entry) string{
		"source": func(e Entry) string { return e.Source },
	},
	Date: func(e Entry) time.Time { return e.Month },
	Sorters: map[string]listing.Comparator[Entry]{
		"month":      listing.Times(func(e Entry) time.Time { return e.Month }),
		"source":     listing.Strings(func(e Entry) string { return e.Source }),
		"revenue":    listing.Numbers(func(e Entry) float64 { return e.Revenue }),
		"cost_total": listing.Numbers(func(e Entry) float64 { return e.CostTotal }),
		"margin":     listing.Numbers(func(e Entry) float64 { return e.Margin }),
	},
	DefaultOrdering: core.ParseOrdering("-month,source"),
	PageSize:        10,
}

func Summarize(entries []Entry) Summary {
	revenue := func(e Entry) float64 { return e.Revenue }
	total := listing.Sum(entries, revenue)
	cost := listing.Sum(entries, func(e Entry) float64 { return e.CostTotal })
	return Summary{
		TotalRevenue: total,
		TotalCost:    cost,
		Profit:       total - cost,
		Margin:       listing.Round(Margin(total, cost) * 100),
		BySource:     listing.GroupSum(entries, func(e Entry) string { return e.Source }, revenue),
	}
}

// Series sums entries per month, oldest month first.
func Series(entries []Entry) []Point {
	byMonth := make(map[string]*Point)
	for _, e := range entries {
		key := e.Month.Format(monthLayout)
		p, ok := byMonth[key]
		if !ok {
			p = &Point{Month: key}
			byMonth[key] = p
		}
		p.Revenue += e.Revenue
		p.Cost += e.CostTotal
		p.Profit = p.Revenue - p.Cost
	}
	series := make([]Point, 0, len(byMonth))
	for _, p := range byMonth {
		series = append(series, *p)
	}
	slices.SortFunc(series, func(a, b Point) int {
		switch {
		case a.Month < b.Month:
			return -1
		case a.Month > b.Month:
			return 1
		}
		return 0
	})
	return series
}

type Service struct {
	*records.Service[Entry, Summary]
}

func NewService(repo Repository) *Service {
	return &Service{&records.Service[Entry, Summary]{
		Repo:      repo,
		Schema:    Schema,
		Summarize: Summarize,
		CSV:       csvCodec,
	}}
}

func (ne NewEntry) build() Entry {
	now := core.Now()
	e := Entry{
		ID:          core.NewID(),
		Month:       MonthStart(ne.Month),
		Source:      ne.Source,
		Description: ne.Description,
		Revenue:     ne.Revenue,
		CostTotal:   ne.CostTotal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.computeMargin()
	return e
}

func (svc *Service) Create(ctx context.Context, ne NewEntry) (Entry, error) {
	if err := ne.Validate(); err != nil {
		return Entry{}, err
	}
	return svc.Repo.Create(ctx, ne.build())
}

func (svc *Service) Update(ctx context.Context, id string, ue UpdateEntry) (Entry, error) {
	if err := ue.Validate(); err != nil {
		return Entry{}, err
	}
	e, err := svc.Repo.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	ue.apply(&e)
	e.UpdatedAt = core.Now()
	return svc.Repo.Update(ctx, e)
}

// Series returns the monthly series of the filtered entries.
func (svc *Service) Series(ctx context.Context, c listing.Criteria) ([]Point, error) {
	entries, err := svc.Filtered(ctx, c)
	if err != nil {
		return nil, err
	}
	return Series(entries), nil
}

// Chart draws the revenue of the filtered entries as an SVG: per month for line and area charts,
// per source for pie charts.
func (svc *Service) Chart(ctx context.Context, c listing.Criteria, kind chart.Kind) (core.File, error) {
	entries, err := svc.Filtered(ctx, c)
	if err != nil {
		return core.File{}, err
	}

	var (
		labels []string
		values []float64
		title  = "Monthly revenue"
	)
	if kind == chart.Pie {
		title = "Revenue by source"
		bySource := Summarize(entries).BySource
		for source := range bySource {
			labels = append(labels, source)
		}
		sort.Strings(labels)
		for _, source := range labels {
			values = append(values, bySource[source])
		}
	} else {
		for _, p := range Series(entries) {
			labels = append(labels, p.Month)
			values = append(values, p.Revenue)
		}
	}

	var buf bytes.Buffer
	if err = chart.Render(&buf, kind, title, labels, values, chart.DefaultBox); err != nil {
		return core.File{}, err
	}
	return core.File{Name: "revenue-" + string(kind) + ".svg", ContentType: core.ContentTypeSVG, Content: buf.Bytes()}, nil
}

var csvCodec = records.CSVCodec[Entry]{
	Header: []string{"id", "month", "source", "description", "revenue", "cost_total", "margin_pct"},
	Encode: func(e Entry) []string {
		return []string{
			e.ID,
			e.Month.Format(monthLayout),
			e.Source,
			e.Description,
			records.FormatFloat(e.Revenue),
			records.FormatFloat(e.CostTotal),
			records.FormatFloat(listing.Round(e.Margin * 100)),
		}
	},
	Decode: func(r records.Row) (Entry, error) {
		var err error
		ne := NewEntry{
			Source:      r.String("source", SourceOther),
			Description: r.String("description", ""),
		}
		if month := r.String("month", ""); month != "" {
			if ne.Month, err = time.Parse(monthLayout, month); err != nil {
				if ne.Month, err = r.Time("month", time.Time{}); err != nil {
					return Entry{}, err
				}
			}
		} else {
			ne.Month = core.Now()
		}
		if ne.Revenue, err = r.Float("revenue", 0); err != nil {
			return Entry{}, err
		}
		if ne.CostTotal, err = r.Float("cost_total", 0); err != nil {
			return Entry{}, err
		}
		if err = ne.Validate(); err != nil {
			return Entry{}, err
		}
		return ne.build(), nil
	},
}
