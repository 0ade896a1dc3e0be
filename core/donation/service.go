// Package donation records donations and processes pending ones.
package donation

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/records"
)

const (
	Resource = "donation"

	defaultDonor    = "Anonymous"
	defaultCampaign = "General"
)

type Repository = core.Repository[Donation]

var Schema = listing.Schema[Donation]{
	Resource: "donations",
	Search: []func(Donation) string{
		func(d Donation) string { return d.Donor },
		func(d Donation) string { return d.Campaign },
	},
	Filters: map[string]func(Donation) string{
		"status":   func(d Donation) string { return d.Status },
		"type":     func(d Donation) string { return d.Type },
		"campaign": func(d Donation) string { return d.Campaign },
	},
	Date: func(d Donation) time.Time { return d.Date },
	Sorters: map[string]listing.Comparator[Donation]{
		"donor":    listing.Strings(func(d Donation) string { return d.Donor }),
		"amount":   listing.Numbers(func(d Donation) float64 { return d.Amount }),
		"date":     listing.Times(func(d Donation) time.Time { return d.Date }),
		"type":     listing.Strings(func(d Donation) string { return d.Type }),
		"campaign": listing.Strings(func(d Donation) string { return d.Campaign }),
		"status":   listing.Strings(func(d Donation) string { return d.Status }),
	},
	DefaultOrdering: core.ParseOrdering("-date"),
	PageSize:        10,
}

func Summarize(donations []Donation) Summary {
	amount := func(d Donation) float64 { return d.Amount }
	completed := make([]Donation, 0, len(donations))
	monthlyDonors := make(map[string]bool)
	for _, d := range donations {
		if d.Status == StatusCompleted {
			completed = append(completed, d)
		}
		if d.Type == TypeMonthly {
			monthlyDonors[d.Donor] = true
		}
	}
	return Summary{
		TotalAmount:     listing.Sum(donations, amount),
		Count:           len(donations),
		CompletedAmount: listing.Sum(completed, amount),
		PendingCount:    listing.Count(donations, func(d Donation) bool { return d.Status == StatusPending }),
		FailedCount:     listing.Count(donations, func(d Donation) bool { return d.Status == StatusFailed }),
		AverageAmount:   listing.Round(listing.Average(donations, amount)),
		MonthlyDonors:   len(monthlyDonors),
	}
}

type Service struct {
	*records.Service[Donation, Summary]
	mailer core.EmailService
}

func NewService(repo Repository, mailer core.EmailService) *Service {
	return &Service{
		Service: &records.Service[Donation, Summary]{
			Repo:      repo,
			Schema:    Schema,
			Summarize: Summarize,
			CSV:       csvCodec,
		},
		mailer: mailer,
	}
}

func (nd NewDonation) build() Donation {
	now := core.Now()
	date := nd.Date.UTC()
	if nd.Date.IsZero() {
		date = now
	}
	return Donation{
		ID:         core.NewID(),
		Donor:      nd.Donor,
		DonorEmail: nd.DonorEmail,
		Amount:     nd.Amount,
		Date:       date,
		Type:       nd.Type,
		Campaign:   nd.Campaign,
		Status:     nd.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (svc *Service) Create(ctx context.Context, nd NewDonation) (Donation, error) {
	if err := nd.Validate(); err != nil {
		return Donation{}, err
	}
	return svc.Repo.Create(ctx, nd.build())
}

func (svc *Service) Update(ctx context.Context, id string, ud UpdateDonation) (Donation, error) {
	if err := ud.Validate(); err != nil {
		return Donation{}, err
	}
	d, err := svc.Repo.Get(ctx, id)
	if err != nil {
		return Donation{}, err
	}
	ud.apply(&d)
	d.UpdatedAt = core.Now()
	return svc.Repo.Update(ctx, d)
}

// Process marks the selected donations as completed, dated now, and emails a receipt to every donor with an email.
func (svc *Service) Process(ctx context.Context, ids []string) ([]Donation, error) {
	now := core.Now()
	processed, err := svc.UpdateMany(ctx, ids, func(d *Donation) {
		d.Status = StatusCompleted
		d.Date = now
		d.UpdatedAt = now
	})
	if err != nil {
		return nil, errors.Wrap(err, "processing donations")
	}

	msgs := make([]*core.EmailMessage, 0, len(processed))
	for _, d := range processed {
		if d.DonorEmail == "" {
			continue
		}
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: d.Donor, Address: d.DonorEmail}},
			Subject:      "Thank you for your donation",
			TemplateName: "donation_receipt",
			TemplateData: receipt{Donor: d.Donor, Type: d.Type, Amount: d.Amount, Campaign: d.Campaign, Date: d.Date},
		})
	}
	if len(msgs) > 0 && svc.mailer != nil {
		svc.mailer.SendMessages(msgs...)
	}
	return processed, nil
}

var csvCodec = records.CSVCodec[Donation]{
	Header: []string{"id", "donor", "donor_email", "amount", "date", "type", "campaign", "status"},
	Encode: func(d Donation) []string {
		return []string{
			d.ID,
			d.Donor,
			d.DonorEmail,
			records.FormatFloat(d.Amount),
			d.Date.Format(records.DateLayout),
			d.Type,
			d.Campaign,
			d.Status,
		}
	},
	Decode: func(r records.Row) (Donation, error) {
		var err error
		nd := NewDonation{
			Donor:      r.String("donor", defaultDonor),
			DonorEmail: r.String("donor_email", ""),
			Type:       r.String("type", TypeOneTime),
			Campaign:   r.String("campaign", defaultCampaign),
			Status:     r.String("status", StatusPending),
		}
		if nd.Amount, err = r.Float("amount", 0); err != nil {
			return Donation{}, err
		}
		if nd.Date, err = r.Time("date", time.Time{}); err != nil {
			return Donation{}, err
		}
		if err = nd.Validate(); err != nil {
			return Donation{}, err
		}
		return nd.build(), nil
	},
}
