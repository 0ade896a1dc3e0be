package donation

import (
	"time"

	"github.com/trezcool/akademi/core"
)

const (
	TypeOneTime = "One-time"
	TypeMonthly = "Monthly"

	StatusCompleted = "Completed"
	StatusPending   = "Pending"
	StatusFailed    = "Failed"
)

var (
	Types    = []string{TypeOneTime, TypeMonthly}
	Statuses = []string{StatusCompleted, StatusPending, StatusFailed}
)

type Donation struct {
	ID         string    `json:"id" db:"id"`
	Donor      string    `json:"donor" db:"donor"`
	DonorEmail string    `json:"donor_email" db:"donor_email"`
	Amount     float64   `json:"amount" db:"amount"`
	Date       time.Time `json:"date" db:"date"`
	Type       string    `json:"type" db:"type"`
	Campaign   string    `json:"campaign" db:"campaign"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type Summary struct {
	TotalAmount     float64 `json:"total_amount"`
	Count           int     `json:"count"`
	CompletedAmount float64 `json:"completed_amount"`
	PendingCount    int     `json:"pending_count"`
	FailedCount     int     `json:"failed_count"`
	AverageAmount   float64 `json:"average_amount"`
	MonthlyDonors   int     `json:"monthly_donors"`
}

// NewDonation contains information needed to record a new Donation.
type NewDonation struct {
	Donor      string    `json:"donor"`
	DonorEmail string    `json:"donor_email" validate:"omitempty,email"`
	Amount     float64   `json:"amount" validate:"min=0"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type" validate:"required,oneof=One-time Monthly"`
	Campaign   string    `json:"campaign"`
	Status     string    `json:"status" validate:"required,oneof=Completed Pending Failed"`
}

func (nd *NewDonation) Validate() error {
	nd.Donor = core.CleanString(nd.Donor)
	nd.DonorEmail = core.CleanString(nd.DonorEmail, true /* lower */)
	nd.Campaign = core.CleanString(nd.Campaign)
	nd.Type = core.CleanString(nd.Type)
	nd.Status = core.CleanString(nd.Status)
	if nd.Donor == "" {
		nd.Donor = defaultDonor
	}
	if nd.Campaign == "" {
		nd.Campaign = defaultCampaign
	}
	if nd.Type == "" {
		nd.Type = TypeOneTime
	}
	if nd.Status == "" {
		nd.Status = StatusPending
	}
	return core.Validate.Struct(nd)
}

// UpdateDonation defines what information may be provided to modify an existing Donation.
type UpdateDonation struct {
	Donor      string    `json:"donor"`
	DonorEmail *string   `json:"donor_email" validate:"omitempty,email"`
	Amount     *float64  `json:"amount" validate:"omitempty,min=0"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type" validate:"omitempty,oneof=One-time Monthly"`
	Campaign   string    `json:"campaign"`
	Status     string    `json:"status" validate:"omitempty,oneof=Completed Pending Failed"`
}

func (ud *UpdateDonation) Validate() error {
	ud.Donor = core.CleanString(ud.Donor)
	if ud.DonorEmail != nil {
		email := core.CleanString(*ud.DonorEmail, true /* lower */)
		ud.DonorEmail = &email
	}
	ud.Campaign = core.CleanString(ud.Campaign)
	ud.Type = core.CleanString(ud.Type)
	ud.Status = core.CleanString(ud.Status)
	return core.Validate.Struct(ud)
}

func (ud UpdateDonation) apply(d *Donation) {
	if ud.Donor != "" {
		d.Donor = ud.Donor
	}
	if ud.DonorEmail != nil {
		d.DonorEmail = *ud.DonorEmail
	}
	if ud.Amount != nil {
		d.Amount = *ud.Amount
	}
	if !ud.Date.IsZero() {
		d.Date = ud.Date.UTC()
	}
	if ud.Type != "" {
		d.Type = ud.Type
	}
	if ud.Campaign != "" {
		d.Campaign = ud.Campaign
	}
	if ud.Status != "" {
		d.Status = ud.Status
	}
}

// receipt is rendered by the donation_receipt email templates.
type receipt struct {
	Donor    string
	Type     string
	Amount   float64
	Campaign string
	Date     time.Time
}
