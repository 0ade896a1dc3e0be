package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core/attendance"
	"github.com/trezcool/akademi/core/grading"
	"github.com/trezcool/akademi/core/progress"
	"github.com/trezcool/akademi/core/records"
)

func registerStudentAPI(a *api) {
	attendances := a.svcs.Attendance
	g := registerResource(a, resource[attendance.Record, attendance.Summary, attendance.NewRecord, attendance.UpdateRecord]{
		path:   "attendance",
		name:   attendance.Resource,
		svc:    attendances.Service,
		create: attendances.Create,
		update: attendances.Update,
	})
	g.POST("/bulk/status", func(ctx echo.Context) error {
		var data attendance.StatusChange
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to attendance.StatusChange")
		}
		if len(records.UniqueIDs(data.IDs)) == 0 {
			return ctx.NoContent(http.StatusNoContent)
		}
		updated, err := attendances.SetStatus(ctx.Request().Context(), data)
		if err != nil {
			return err
		}
		a.metrics.mutated("attendance", "status", len(updated))
		return ctx.JSON(http.StatusOK, bulk(updated))
	})

	progresses := a.svcs.Progress
	registerResource(a, resource[progress.Record, progress.Summary, progress.NewRecord, progress.UpdateRecord]{
		path:   "progress",
		name:   progress.Resource,
		svc:    progresses.Service,
		create: progresses.Create,
		update: progresses.Update,
	})

	registerGradingAPI(a)
}

func registerGradingAPI(a *api) {
	svc := a.svcs.Grades
	g := registerResource(a, resource[grading.Record, grading.Summary, grading.NewRecord, grading.UpdateRecord]{
		path:   "grades",
		name:   grading.Resource,
		svc:    svc.Service,
		create: svc.Create,
		update: svc.Update,
	})

	g.GET("/preferences", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, svc.Preferences())
	})
	g.PUT("/preferences", func(ctx echo.Context) error {
		var data grading.Preferences
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to grading.Preferences")
		}
		prefs, err := svc.SetPreferences(ctx.Request().Context(), data)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, prefs)
	})

	// ?format=pdf|png&size=full|thumb
	g.GET("/:id/certificate", func(ctx echo.Context) error {
		file, err := svc.CertificateFile(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("format"), ctx.QueryParam("size"))
		if err != nil {
			return err
		}
		a.metrics.exported("certificates", extension(file))
		if ctx.QueryParam("download") == "true" {
			return attachment(ctx, file)
		}
		return ctx.Blob(http.StatusOK, file.ContentType, file.Content)
	})

	g.POST("/:id/certificate/send", func(ctx echo.Context) error {
		if err := svc.SendCertificate(ctx.Request().Context(), ctx.Param("id")); err != nil {
			return err
		}
		return ctx.NoContent(http.StatusAccepted)
	})
}
