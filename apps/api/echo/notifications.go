package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/notification"
)

type ReadAllResponse struct {
	Updated int `json:"updated"`
}

func registerNotificationAPI(a *api) {
	svc := a.svcs.Notifications
	g := registerResource(a, resource[notification.Notification, notification.Summary, notification.NewNotification, notification.UpdateNotification]{
		path:   "notifications",
		name:   notification.Resource,
		svc:    svc.Service,
		create: svc.Create,
		update: svc.Update,
		delete: svc.Delete, // keeps the batch for undo
	})

	g.GET("/live", a.hub.serve)

	g.PUT("/:id/read", func(ctx echo.Context) error {
		read, err := svc.MarkRead(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			return err
		}
		if len(read) == 0 {
			return core.NewNotFoundError(notification.Resource)
		}
		return ctx.JSON(http.StatusOK, read[0])
	})

	g.POST("/read", func(ctx echo.Context) error {
		ids, err := bindIDs(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ctx.NoContent(http.StatusNoContent)
		}
		read, err := svc.MarkRead(ctx.Request().Context(), ids...)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, bulk(read))
	})

	g.POST("/read-all", func(ctx echo.Context) error {
		n, err := svc.MarkAllRead(ctx.Request().Context())
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, ReadAllResponse{Updated: n})
	})

	// restores the last deleted batch, once
	g.POST("/undo", func(ctx echo.Context) error {
		restored, err := svc.Undo(ctx.Request().Context())
		if err != nil {
			return err
		}
		a.metrics.mutated("notifications", "restore", len(restored))
		return ctx.JSON(http.StatusOK, bulk(restored))
	})
}
