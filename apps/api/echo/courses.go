package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core/course"
	"github.com/trezcool/akademi/core/donation"
	"github.com/trezcool/akademi/core/records"
)

func registerCourseAPI(a *api) {
	svc := a.svcs.Courses
	g := registerResource(a, resource[course.Course, course.Summary, course.NewCourse, course.UpdateCourse]{
		path:   "courses",
		name:   course.Resource,
		svc:    svc.Service,
		create: svc.Create,
		update: svc.Update,
	})
	g.POST("/bulk/status", func(ctx echo.Context) error {
		var data course.StatusChange
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to course.StatusChange")
		}
		if len(records.UniqueIDs(data.IDs)) == 0 {
			return ctx.NoContent(http.StatusNoContent)
		}
		updated, err := svc.SetStatus(ctx.Request().Context(), data)
		if err != nil {
			return err
		}
		a.metrics.mutated("courses", "status", len(updated))
		return ctx.JSON(http.StatusOK, bulk(updated))
	})
}

func registerDonationAPI(a *api) {
	svc := a.svcs.Donations
	g := registerResource(a, resource[donation.Donation, donation.Summary, donation.NewDonation, donation.UpdateDonation]{
		path:   "donations",
		name:   donation.Resource,
		svc:    svc.Service,
		create: svc.Create,
		update: svc.Update,
	})
	// completes the selected donations, dated now, and emails the receipts
	g.POST("/bulk/process", func(ctx echo.Context) error {
		ids, err := bindIDs(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ctx.NoContent(http.StatusNoContent)
		}
		processed, err := svc.Process(ctx.Request().Context(), ids)
		if err != nil {
			return err
		}
		a.metrics.mutated("donations", "process", len(processed))
		return ctx.JSON(http.StatusOK, bulk(processed))
	})
}
