package course

import (
	"time"

	"github.com/trezcool/akademi/core"
)

const (
	StatusActive   = "active"
	StatusDraft    = "draft"
	StatusArchived = "archived"
)

var Statuses = []string{StatusActive, StatusDraft, StatusArchived}

type Course struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Instructor string    `json:"instructor" db:"instructor"`
	Students   int       `json:"students" db:"students"`
	Revenue    float64   `json:"revenue" db:"revenue"`
	Rating     float64   `json:"rating" db:"rating"`     // 0 - 5
	Progress   float64   `json:"progress" db:"progress"` // 0 - 100
	Status     string    `json:"status" db:"status"`
	Category   string    `json:"category" db:"category"`
	Price      float64   `json:"price" db:"price"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type Summary struct {
	Total           int     `json:"total"`
	Active          int     `json:"active"`
	Draft           int     `json:"draft"`
	Archived        int     `json:"archived"`
	TotalStudents   int     `json:"total_students"`
	TotalRevenue    float64 `json:"total_revenue"`
	AverageRating   float64 `json:"average_rating"`
	AverageProgress float64 `json:"average_progress"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title      string  `json:"title" validate:"required"`
	Instructor string  `json:"instructor" validate:"required"`
	Students   int     `json:"students" validate:"min=0"`
	Revenue    float64 `json:"revenue" validate:"min=0"`
	Rating     float64 `json:"rating" validate:"min=0,max=5"`
	Progress   float64 `json:"progress" validate:"min=0,max=100"`
	Status     string  `json:"status" validate:"omitempty,oneof=active draft archived"`
	Category   string  `json:"category"`
	Price      float64 `json:"price" validate:"min=0"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Instructor = core.CleanString(nc.Instructor)
	nc.Status = core.CleanString(nc.Status, true /* lower */)
	nc.Category = core.CleanString(nc.Category)
	if nc.Status == "" {
		nc.Status = StatusDraft
	}
	if nc.Category == "" {
		nc.Category = defaultCategory
	}
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Blank strings and nil numbers keep the current values.
type UpdateCourse struct {
	Title      string   `json:"title"`
	Instructor string   `json:"instructor"`
	Students   *int     `json:"students" validate:"omitempty,min=0"`
	Revenue    *float64 `json:"revenue" validate:"omitempty,min=0"`
	Rating     *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
	Progress   *float64 `json:"progress" validate:"omitempty,min=0,max=100"`
	Status     string   `json:"status" validate:"omitempty,oneof=active draft archived"`
	Category   string   `json:"category"`
	Price      *float64 `json:"price" validate:"omitempty,min=0"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Title = core.CleanString(uc.Title)
	uc.Instructor = core.CleanString(uc.Instructor)
	uc.Status = core.CleanString(uc.Status, true /* lower */)
	uc.Category = core.CleanString(uc.Category)
	return core.Validate.Struct(uc)
}

func (uc UpdateCourse) apply(c *Course) {
	if uc.Title != "" {
		c.Title = uc.Title
	}
	if uc.Instructor != "" {
		c.Instructor = uc.Instructor
	}
	if uc.Students != nil {
		c.Students = *uc.Students
	}
	if uc.Revenue != nil {
		c.Revenue = *uc.Revenue
	}
	if uc.Rating != nil {
		c.Rating = *uc.Rating
	}
	if uc.Progress != nil {
		c.Progress = *uc.Progress
	}
	if uc.Status != "" {
		c.Status = uc.Status
	}
	if uc.Category != "" {
		c.Category = uc.Category
	}
	if uc.Price != nil {
		c.Price = *uc.Price
	}
}

// StatusChange is the body of a bulk status change (publish, archive...).
type StatusChange struct {
	IDs    []string `json:"ids" validate:"required,min=1"`
	Status string   `json:"status" validate:"required,oneof=active draft archived"`
}

func (sc *StatusChange) Validate() error {
	sc.Status = core.CleanString(sc.Status, true /* lower */)
	return core.Validate.Struct(sc)
}
