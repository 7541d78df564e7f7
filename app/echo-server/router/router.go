package router

import (
	"net/http"

	"screenBreak/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupScreenTimeRoutes(api *echo.Group, handler *rest.ScreenTimeHandler) {
	screenTime := api.Group("/screen-time")

	screenTime.POST("/evaluate", handler.Evaluate)
	screenTime.GET("/tiers", handler.Tiers)
	screenTime.GET("/reference", handler.Reference)
}

func SetupOpsRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
