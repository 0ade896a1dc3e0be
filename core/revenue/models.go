package revenue

import (
	"time"

	"github.com/trezcool/akademi/core"
)

const (
	SourceCourses       = "courses"
	SourceDonations     = "donations"
	SourceSubscriptions = "subscriptions"
	SourceOther         = "other"
)

var Sources = []string{SourceCourses, SourceDonations, SourceSubscriptions, SourceOther}

// Entry is the revenue and cost of one source over one month.
type Entry struct {
	ID          string    `json:"id" db:"id"`
	Month       time.Time `json:"month" db:"month"` // first day of the month, UTC
	Source      string    `json:"source" db:"source"`
	Description string    `json:"description" db:"description"`
	Revenue     float64   `json:"revenue" db:"revenue"`
	CostTotal   float64   `json:"cost_total" db:"cost_total"`
	Margin      float64   `json:"margin" db:"margin"` // (revenue - cost_total) / revenue
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Margin returns (revenue - cost) / revenue, or 0 without revenue.
func Margin(revenue, cost float64) float64 {
	if revenue == 0 {
		return 0
	}
	return (revenue - cost) / revenue
}

func (e *Entry) computeMargin() {
	e.Margin = Margin(e.Revenue, e.CostTotal)
}

// MonthStart truncates t to the first day of its month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

type Summary struct {
	TotalRevenue float64            `json:"total_revenue"`
	TotalCost    float64            `json:"total_cost"`
	Profit       float64            `json:"profit"`
	Margin       float64            `json:"margin"`
	BySource     map[string]float64 `json:"by_source"`
}

// Point is one month of the revenue series.
type Point struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
}

type NewEntry struct {
	Month       time.Time `json:"month" validate:"required"`
	Source      string    `json:"source" validate:"required,oneof=courses donations subscriptions other"`
	Description string    `json:"description"`
	Revenue     float64   `json:"revenue" validate:"min=0"`
	CostTotal   float64   `json:"cost_total" validate:"min=0"`
}

func (ne *NewEntry) Validate() error {
	ne.Source = core.CleanString(ne.Source, true /* lower */)
	ne.Description = core.CleanString(ne.Description)
	if ne.Source == "" {
		ne.Source = SourceOther
	}
	return core.Validate.Struct(ne)
}

type UpdateEntry struct {
	Month       time.Time `json:"month"`
	Source      string    `json:"source" validate:"omitempty,oneof=courses donations subscriptions other"`
	Description *string   `json:"description"`
	Revenue     *float64  `json:"revenue" validate:"omitempty,min=0"`
	CostTotal   *float64  `json:"cost_total" validate:"omitempty,min=0"`
}

func (ue *UpdateEntry) Validate() error {
	ue.Source = core.CleanString(ue.Source, true /* lower */)
	return core.Validate.Struct(ue)
}

func (ue UpdateEntry) apply(e *Entry) {
	if !ue.Month.IsZero() {
		e.Month = MonthStart(ue.Month)
	}
	if ue.Source != "" {
		e.Source = ue.Source
	}
	if ue.Description != nil {
		e.Description = core.CleanString(*ue.Description)
	}
	if ue.Revenue != nil {
		e.Revenue = *ue.Revenue
	}
	if ue.CostTotal != nil {
		e.CostTotal = *ue.CostTotal
	}
	e.computeMargin()
}
