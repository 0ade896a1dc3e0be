package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/akademi/core/chart"
	"github.com/trezcool/akademi/core/revenue"
)

const kindParam = "kind"

func registerRevenueAPI(a *api) {
	svc := a.svcs.Revenue
	g := registerResource(a, resource[revenue.Entry, revenue.Summary, revenue.NewEntry, revenue.UpdateEntry]{
		path:   "revenue",
		name:   revenue.Resource,
		svc:    svc.Service,
		create: svc.Create,
		update: svc.Update,
	})

	// monthly totals of the filtered entries
	g.GET("/series", func(ctx echo.Context) error {
		c, err := bindCriteria(ctx, 0)
		if err != nil {
			return err
		}
		series, err := svc.Series(ctx.Request().Context(), c)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, series)
	})

	g.GET("/chart", func(ctx echo.Context) error {
		kind, err := chart.ParseKind(ctx.QueryParam(kindParam))
		if err != nil {
			return err
		}
		c, err := bindCriteria(ctx, 0, kindParam)
		if err != nil {
			return err
		}
		file, err := svc.Chart(ctx.Request().Context(), c, kind)
		if err != nil {
			return err
		}
		a.metrics.exported("revenue", "svg")
		return ctx.Blob(http.StatusOK, file.ContentType, file.Content)
	})
}
