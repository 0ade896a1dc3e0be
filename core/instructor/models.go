package instructor

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

type Instructor struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Department string    `json:"department" db:"department"`
	Status     string    `json:"status" db:"status"`
	JoinDate   time.Time `json:"join_date" db:"join_date"`
	Salary     float64   `json:"salary" db:"salary"`
	Rating     float64   `json:"rating" db:"rating"`
	Students   int       `json:"students" db:"students"`
	Courses    int       `json:"courses" db:"courses"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type Summary struct {
	Total         int     `json:"total"`
	Active        int     `json:"active"`
	OnLeave       int     `json:"on_leave"`
	Inactive      int     `json:"inactive"`
	TotalStudents int     `json:"total_students"`
	AverageRating float64 `json:"average_rating"`
	TotalSalary   float64 `json:"total_salary"`
}

type NewInstructor struct {
	Name       string    `json:"name" validate:"required"`
	Email      string    `json:"email" validate:"omitempty,email"`
	Department string    `json:"department"`
	Status     string    `json:"status" validate:"required,oneof=active inactive on-leave"`
	JoinDate   time.Time `json:"join_date"`
	Salary     float64   `json:"salary" validate:"min=0"`
	Rating     float64   `json:"rating" validate:"min=0,max=5"`
	Students   int       `json:"students" validate:"min=0"`
	Courses    int       `json:"courses" validate:"min=0"`
}

func (ni *NewInstructor) Validate() error {
	ni.Name = core.CleanString(ni.Name)
	ni.Email = core.CleanString(ni.Email, true /* lower */)
	ni.Department = core.CleanString(ni.Department)
	ni.Status = core.CleanString(ni.Status, true /* lower */)
	if ni.Department == "" {
		ni.Department = defaultDepartment
	}
	if ni.Status == "" {
		ni.Status = StatusActive
	}
	return core.Validate.Struct(ni)
}

type UpdateInstructor struct {
	Name       string    `json:"name"`
	Email      string    `json:"email" validate:"omitempty,email"`
	Department string    `json:"department"`
	Status     string    `json:"status" validate:"omitempty,oneof=active inactive on-leave"`
	JoinDate   time.Time `json:"join_date"`
	Salary     *float64  `json:"salary" validate:"omitempty,min=0"`
	Rating     *float64  `json:"rating" validate:"omitempty,min=0,max=5"`
	Students   *int      `json:"students" validate:"omitempty,min=0"`
	Courses    *int      `json:"courses" validate:"omitempty,min=0"`
}

func (ui *UpdateInstructor) Validate() error {
	ui.Name = core.CleanString(ui.Name)
	ui.Email = core.CleanString(ui.Email, true /* lower */)
	ui.Department = core.CleanString(ui.Department)
	ui.Status = core.CleanString(ui.Status, true /* lower */)
	return core.Validate.Struct(ui)
}

func (ui UpdateInstructor) apply(in *Instructor) {
	if ui.Name != "" {
		in.Name = ui.Name
	}
	if ui.Email != "" {
		in.Email = ui.Email
	}
	if ui.Department != "" {
		in.Department = ui.Department
	}
	if ui.Status != "" {
		in.Status = ui.Status
	}
	if !ui.JoinDate.IsZero() {
		in.JoinDate = ui.JoinDate.UTC()
	}
	if ui.Salary != nil {
		in.Salary = *ui.Salary
	}
	if ui.Rating != nil {
		in.Rating = *ui.Rating
	}
	if ui.Students != nil {
		in.Students = *ui.Students
	}
	if ui.Courses != nil {
		in.Courses = *ui.Courses
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
