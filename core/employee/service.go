// Package employee manages the administrative staff directory.
package employee

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/records"
)

const (
	Resource = "employee"

	defaultDepartment = "General"
)

type Repository = core.Repository[Employee]

var Schema = listing.Schema[Employee]{
	Resource: "employees",
	Search: []func(Employee) string{
		func(e Employee) string { return e.Name },
		func(e Employee) string { return e.Email },
		func(e Employee) string { return e.Role },
	},
	Filters: map[string]func(Employee) string{
		"status":     func(e Employee) string { return e.Status },
		"department": func(e Employee) string { return e.Department },
		"role":       func(e Employee) string { return e.Role },
	},
	Date: func(e Employee) time.Time { return e.HireDate },
	Sorters: map[string]listing.Comparator[Employee]{
		"name":       listing.Strings(func(e Employee) string { return e.Name }),
		"email":      listing.Strings(func(e Employee) string { return e.Email }),
		"role":       listing.Strings(func(e Employee) string { return e.Role }),
		"department": listing.Strings(func(e Employee) string { return e.Department }),
		"status":     listing.Strings(func(e Employee) string { return e.Status }),
		"hire_date":  listing.Times(func(e Employee) time.Time { return e.HireDate }),
		"salary":     listing.Numbers(func(e Employee) float64 { return e.Salary }),
	},
	DefaultOrdering: core.ParseOrdering("name"),
	PageSize:        10,
}

func Summarize(employees []Employee) Summary {
	salary := func(e Employee) float64 { return e.Salary }
	departments := listing.GroupSum(employees, func(e Employee) string { return e.Department }, salary)
	return Summary{
		Total:         len(employees),
		Active:        listing.Count(employees, func(e Employee) bool { return e.Status == StatusActive }),
		OnLeave:       listing.Count(employees, func(e Employee) bool { return e.Status == StatusOnLeave }),
		Inactive:      listing.Count(employees, func(e Employee) bool { return e.Status == StatusInactive }),
		TotalPayroll:  listing.Sum(employees, salary),
		AverageSalary: listing.Round(listing.Average(employees, salary)),
		Departments:   len(departments),
	}
}

type Service struct {
	*records.Service[Employee, Summary]
}

func NewService(repo Repository) *Service {
	return &Service{&records.Service[Employee, Summary]{
		Repo:      repo,
		Schema:    Schema,
		Summarize: Summarize,
		CSV:       csvCodec,
	}}
}

func (ne NewEmployee) build() Employee {
	now := core.Now()
	hired := ne.HireDate.UTC()
	if ne.HireDate.IsZero() {
		hired = now
	}
	return Employee{
		ID:         core.NewID(),
		Name:       ne.Name,
		Email:      ne.Email,
		Role:       ne.Role,
		Department: ne.Department,
		Status:     ne.Status,
		HireDate:   hired,
		Salary:     ne.Salary,
		Phone:      ne.Phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (svc *Service) Create(ctx context.Context, ne NewEmployee) (Employee, error) {
	if err := ne.Validate(); err != nil {
		return Employee{}, err
	}
	return svc.Repo.Create(ctx, ne.build())
}

func (svc *Service) Update(ctx context.Context, id string, ue UpdateEmployee) (Employee, error) {
	if err := ue.Validate(); err != nil {
		return Employee{}, err
	}
	e, err := svc.Repo.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	ue.apply(&e)
	e.UpdatedAt = core.Now()
	return svc.Repo.Update(ctx, e)
}

func (svc *Service) SetStatus(ctx context.Context, sc StatusChange) ([]Employee, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	now := core.Now()
	updated, err := svc.UpdateMany(ctx, sc.IDs, func(e *Employee) {
		e.Status = sc.Status
		e.UpdatedAt = now
	})
	return updated, errors.Wrap(err, "changing employees status")
}

var csvCodec = records.CSVCodec[Employee]{
	Header: []string{"id", "name", "email", "role", "department", "status", "hire_date", "salary", "phone"},
	Encode: func(e Employee) []string {
		return []string{
			e.ID,
			e.Name,
			e.Email,
			e.Role,
			e.Department,
			e.Status,
			e.HireDate.Format(records.DateLayout),
			records.FormatFloat(e.Salary),
			e.Phone,
		}
	},
	Decode: func(r records.Row) (Employee, error) {
		var err error
		ne := NewEmployee{
			Name:       r.String("name", ""),
			Email:      r.String("email", ""),
			Role:       r.String("role", "Staff"),
			Department: r.String("department", defaultDepartment),
			Status:     r.String("status", StatusActive),
			Phone:      r.String("phone", ""),
		}
		if ne.HireDate, err = r.Time("hire_date", time.Time{}); err != nil {
			return Employee{}, err
		}
		if ne.Salary, err = r.Float("salary", 0); err != nil {
			return Employee{}, err
		}
		if err = ne.Validate(); err != nil {
			return Employee{}, err
		}
		return ne.build(), nil
	},
}
