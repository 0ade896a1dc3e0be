package salary

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/akademi/core"
)

const (
	StatusPaid    = "paid"
	StatusPending = "pending"
)

var Statuses = []string{StatusPaid, StatusPending}

// Salary is the monthly pay slip of an instructor.
// NetSalary is always BaseSalary + Bonus - Deductions.
type Salary struct {
	ID             string    `json:"id" db:"id"`
	InstructorName string    `json:"instructor_name" db:"instructor_name"`
	BaseSalary     float64   `json:"base_salary" db:"base_salary"`
	Bonus          float64   `json:"bonus" db:"bonus"`
	Deductions     float64   `json:"deductions" db:"deductions"`
	NetSalary      float64   `json:"net_salary" db:"net_salary"`
	Status         string    `json:"status" db:"status"`
	Month          string    `json:"month" db:"month"` // YYYY-MM
	PaidAt         null.Time `json:"paid_at" db:"paid_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Net computes the net salary.
func Net(base, bonus, deductions float64) float64 {
	return base + bonus - deductions
}

func (s *Salary) computeNet() {
	s.NetSalary = Net(s.BaseSalary, s.Bonus, s.Deductions)
}

type Summary struct {
	TotalNet        float64 `json:"total_net"`
	TotalBase       float64 `json:"total_base"`
	TotalBonus      float64 `json:"total_bonus"`
	TotalDeductions float64 `json:"total_deductions"`
	PaidCount       int     `json:"paid_count"`
	PendingCount    int     `json:"pending_count"`
	AverageNet      float64 `json:"average_net"`
}

// NewSalary contains information needed to create a Salary. A net salary sent by clients is ignored.
type NewSalary struct {
	InstructorName string  `json:"instructor_name" validate:"required"`
	BaseSalary     float64 `json:"base_salary" validate:"min=0"`
	Bonus          float64 `json:"bonus" validate:"min=0"`
	Deductions     float64 `json:"deductions" validate:"min=0"`
	Status         string  `json:"status" validate:"required,oneof=paid pending"`
	Month          string  `json:"month" validate:"required,yyyymm"`
}

func (ns *NewSalary) Validate() error {
	ns.InstructorName = core.CleanString(ns.InstructorName)
	ns.Status = core.CleanString(ns.Status, true /* lower */)
	ns.Month = core.CleanString(ns.Month)
	if ns.Status == "" {
		ns.Status = StatusPending
	}
	return core.Validate.Struct(ns)
}

type UpdateSalary struct {
	InstructorName string   `json:"instructor_name"`
	BaseSalary     *float64 `json:"base_salary" validate:"omitempty,min=0"`
	Bonus          *float64 `json:"bonus" validate:"omitempty,min=0"`
	Deductions     *float64 `json:"deductions" validate:"omitempty,min=0"`
	Status         string   `json:"status" validate:"omitempty,oneof=paid pending"`
	Month          string   `json:"month" validate:"omitempty,yyyymm"`
}

func (us *UpdateSalary) Validate() error {
	us.InstructorName = core.CleanString(us.InstructorName)
	us.Status = core.CleanString(us.Status, true /* lower */)
	us.Month = core.CleanString(us.Month)
	return core.Validate.Struct(us)
}

func (us UpdateSalary) apply(s *Salary, now time.Time) {
	if us.InstructorName != "" {
		s.InstructorName = us.InstructorName
	}
	if us.BaseSalary != nil {
		s.BaseSalary = *us.BaseSalary
	}
	if us.Bonus != nil {
		s.Bonus = *us.Bonus
	}
	if us.Deductions != nil {
		s.Deductions = *us.Deductions
	}
	if us.Month != "" {
		s.Month = us.Month
	}
	if us.Status != "" && us.Status != s.Status {
		s.Status = us.Status
		s.PaidAt = null.Time{}
		if s.Status == StatusPaid {
			s.PaidAt = null.TimeFrom(now)
		}
	}
	s.computeNet()
}

// PayrollResult reports what ProcessPayroll did with the selected salaries.
type PayrollResult struct {
	Paid    []Salary `json:"paid"`
	Skipped []string `json:"skipped"` // ids of already paid salaries
}
