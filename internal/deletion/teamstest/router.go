package teamstest

import (
	"so4tdelete/internal/deletion/model"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.Use(middleware.Recover())
	e.Use(RequestIDMiddleware)
	e.Use(h.recordRequest)

	e.GET("/", h.GetHome)
	e.GET(model.PathUsers, h.GetUsers)
	e.GET(LoginPath, h.GetLogin)
	e.GET(model.PathEnterpriseAdminSettings, h.GetAdminSettings)
	e.GET(model.PathBusinessAdminSettings, h.GetAdminSettings)
	e.POST(model.PathBulkDeleteUsers, h.PostBulkDeleteUsers)
}
