package employee

import (
	"time"

	"github.com/trezcool/akademi/core"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusOnLeave  = "on-leave"
)

var Statuses = []string{StatusActive, StatusInactive, StatusOnLeave}

type Employee struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Role       string    `json:"role" db:"role"`
	Department string    `json:"department" db:"department"`
	Status     string    `json:"status" db:"status"`
	HireDate   time.Time `json:"hire_date" db:"hire_date"`
	Salary     float64   `json:"salary" db:"salary"`
	Phone      string    `json:"phone" db:"phone"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type Summary struct {
	Total         int     `json:"total"`
	Active        int     `json:"active"`
	OnLeave       int     `json:"on_leave"`
	Inactive      int     `json:"inactive"`
	TotalPayroll  float64 `json:"total_payroll"`
	AverageSalary float64 `json:"average_salary"`
	Departments   int     `json:"departments"`
}

type NewEmployee struct {
	Name       string    `json:"name" validate:"required"`
	Email      string    `json:"email" validate:"required,email"`
	Role       string    `json:"role" validate:"required"`
	Department string    `json:"department"`
	Status     string    `json:"status" validate:"required,oneof=active inactive on-leave"`
	HireDate   time.Time `json:"hire_date"`
	Salary     float64   `json:"salary" validate:"min=0"`
	Phone      string    `json:"phone"`
}

func (ne *NewEmployee) Validate() error {
	ne.Name = core.CleanString(ne.Name)
	ne.Email = core.CleanString(ne.Email, true /* lower */)
	ne.Role = core.CleanString(ne.Role)
	ne.Department = core.CleanString(ne.Department)
	ne.Status = core.CleanString(ne.Status, true /* lower */)
	ne.Phone = core.CleanString(ne.Phone)
	if ne.Department == "" {
		ne.Department = defaultDepartment
	}
	if ne.Status == "" {
		ne.Status = StatusActive
	}
	return core.Validate.Struct(ne)
}

type UpdateEmployee struct {
	Name       string    `json:"name"`
	Email      string    `json:"email" validate:"omitempty,email"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	Status     string    `json:"status" validate:"omitempty,oneof=active inactive on-leave"`
	HireDate   time.Time `json:"hire_date"`
	Salary     *float64  `json:"salary" validate:"omitempty,min=0"`
	Phone      *string   `json:"phone"`
}

func (ue *UpdateEmployee) Validate() error {
	ue.Name = core.CleanString(ue.Name)
	ue.Email = core.CleanString(ue.Email, true /* lower */)
	ue.Role = core.CleanString(ue.Role)
	ue.Department = core.CleanString(ue.Department)
	ue.Status = core.CleanString(ue.Status, true /* lower */)
	return core.Validate.Struct(ue)
}

func (ue UpdateEmployee) apply(e *Employee) {
	if ue.Name != "" {
		e.Name = ue.Name
	}
	if ue.Email != "" {
		e.Email = ue.Email
	}
	if ue.Role != "" {
		e.Role = ue.Role
	}
	if ue.Department != "" {
		e.Department = ue.Department
	}
	if ue.Status != "" {
		e.Status = ue.Status
	}
	if !ue.HireDate.IsZero() {
		e.HireDate = ue.HireDate.UTC()
	}
	if ue.Salary != nil {
		e.Salary = *ue.Salary
	}
	if ue.Phone != nil {
		e.Phone = core.CleanString(*ue.Phone)
	}
}

type StatusChange struct {
	IDs    []string `json:"ids" validate:"required,min=1"`
	Status string   `json:"status" validate:"required,oneof=active inactive on-leave"`
}

func (sc *StatusChange) Validate() error {
	sc.Status = core.CleanString(sc.Status, true /* lower */)
	return core.Validate.Struct(sc)
}
