// Package salary manages instructor pay slips and payroll runs.
package salary

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/records"
)

const Resource = "salary"

const monthLayout = "2006-01"

type Repository = core.Repository[Salary]

var Schema = listing.Schema[Salary]{
	Resource: "salaries",
	Search: []func(Salary) string{
		func(s Salary) string { return s.InstructorName },
	},
	Filters: map[string]func(Salary) string{
		"status": func(s Salary) string { return s.Status },
		"month":  func(s Salary) string { return s.Month },
	},
	// the first day of the month; the month is validated on write
	Date: func(s Salary) time.Time {
		t, _ := time.Parse(monthLayout, s.Month)
		return t
	},
	Sorters: map[string]listing.Comparator[Salary]{
		"instructor_name": listing.Strings(func(s Salary) string { return s.InstructorName }),
		"base_salary":     listing.Numbers(func(s Salary) float64 { return s.BaseSalary }),
		"bonus":           listing.Numbers(func(s Salary) float64 { return s.Bonus }),
		"deductions":      listing.Numbers(func(s Salary) float64 { return s.Deductions }),
		"net_salary":      listing.Numbers(func(s Salary) float64 { return s.NetSalary }),
		"status":          listing.Strings(func(s Salary) string { return s.Status }),
		"month":           listing.Strings(func(s Salary) string { return s.Month }),
	},
	DefaultOrdering: core.ParseOrdering("-month,instructor_name"),
	PageSize:        10,
}

func Summarize(salaries []Salary) Summary {
	net := func(s Salary) float64 { return s.NetSalary }
	return Summary{
		TotalNet:        listing.Sum(salaries, net),
		TotalBase:       listing.Sum(salaries, func(s Salary) float64 { return s.BaseSalary }),
		TotalBonus:      listing.Sum(salaries, func(s Salary) float64 { return s.Bonus }),
		TotalDeductions: listing.Sum(salaries, func(s Salary) float64 { return s.Deductions }),
		PaidCount:       listing.Count(salaries, func(s Salary) bool { return s.Status == StatusPaid }),
		PendingCount:    listing.Count(salaries, func(s Salary) bool { return s.Status == StatusPending }),
		AverageNet:      listing.Round(listing.Average(salaries, net)),
	}
}

type Service struct {
	*records.Service[Salary, Summary]
	processingDelay time.Duration
}

// NewService returns the salary service. ProcessPayroll blocks for processingDelay before paying.
func NewService(repo Repository, processingDelay time.Duration) *Service {
	return &Service{
		Service: &records.Service[Salary, Summary]{
			Repo:      repo,
			Schema:    Schema,
			Summarize: Summarize,
			CSV:       csvCodec,
		},
		processingDelay: processingDelay,
	}
}

func (ns NewSalary) build() Salary {
	now := core.Now()
	s := Salary{
		ID:             core.NewID(),
		InstructorName: ns.InstructorName,
		BaseSalary:     ns.BaseSalary,
		Bonus:          ns.Bonus,
		Deductions:     ns.Deductions,
		Status:         ns.Status,
		Month:          ns.Month,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if s.Status == StatusPaid {
		s.PaidAt = null.TimeFrom(now)
	}
	s.computeNet()
	return s
}

func (svc *Service) Create(ctx context.Context, ns NewSalary) (Salary, error) {
	if err := ns.Validate(); err != nil {
		return Salary{}, err
	}
	return svc.Repo.Create(ctx, ns.build())
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSalary) (Salary, error) {
	if err := us.Validate(); err != nil {
		return Salary{}, err
	}
	s, err := svc.Repo.Get(ctx, id)
	if err != nil {
		return Salary{}, err
	}
	now := core.Now()
	us.apply(&s, now)
	s.UpdatedAt = now
	return svc.Repo.Update(ctx, s)
}

// ProcessPayroll waits for the processing delay, then pays the selected pending salaries.
// The wait is not cancellable once started. Already paid salaries are skipped.
func (svc *Service) ProcessPayroll(ctx context.Context, ids []string) (PayrollResult, error) {
	ids = records.UniqueIDs(ids)
	res := PayrollResult{Paid: make([]Salary, 0, len(ids)), Skipped: make([]string, 0)}
	if len(ids) == 0 {
		return res, nil
	}

	time.Sleep(svc.processingDelay)

	pending := make([]string, 0, len(ids))
	for _, id := range ids {
		s, err := svc.Repo.Get(ctx, id)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return PayrollResult{}, errors.Wrap(err, "getting salary")
		}
		if s.Status == StatusPaid {
			res.Skipped = append(res.Skipped, id)
			continue
		}
		pending = append(pending, id)
	}

	now := core.Now()
	paid, err := svc.UpdateMany(ctx, pending, func(s *Salary) {
		s.Status = StatusPaid
		s.PaidAt = null.TimeFrom(now)
		s.UpdatedAt = now
		s.computeNet()
	})
	if err != nil {
		return PayrollResult{}, errors.Wrap(err, "processing payroll")
	}
	res.Paid = paid
	return res, nil
}

var csvCodec = records.CSVCodec[Salary]{
	Header: []string{"id", "instructor_name", "base_salary", "bonus", "deductions", "net_salary", "status", "month", "paid_at"},
	Encode: func(s Salary) []string {
		var paidAt string
		if s.PaidAt.Valid {
			paidAt = s.PaidAt.Time.Format(time.RFC3339)
		}
		return []string{
			s.ID,
			s.InstructorName,
			records.FormatFloat(s.BaseSalary),
			records.FormatFloat(s.Bonus),
			records.FormatFloat(s.Deductions),
			records.FormatFloat(s.NetSalary),
			s.Status,
			s.Month,
			paidAt,
		}
	},
	// net_salary columns are ignored: the net salary is always recomputed.
	Decode: func(r records.Row) (Salary, error) {
		var err error
		ns := NewSalary{
			InstructorName: r.String("instructor_name", ""),
			Status:         r.String("status", StatusPending),
			Month:          r.String("month", core.Now().Format(monthLayout)),
		}
		if ns.BaseSalary, err = r.Float("base_salary", 0); err != nil {
			return Salary{}, err
		}
		if ns.Bonus, err = r.Float("bonus", 0); err != nil {
			return Salary{}, err
		}
		if ns.Deductions, err = r.Float("deductions", 0); err != nil {
			return Salary{}, err
		}
		if err = ns.Validate(); err != nil {
			return Salary{}, err
		}
		s := ns.build()
		if s.PaidAt.Valid {
			paidAt, err := r.Time("paid_at", s.PaidAt.Time)
			if err != nil {
				return Salary{}, err
			}
			s.PaidAt = null.TimeFrom(paidAt)
		}
		return s, nil
	},
}
