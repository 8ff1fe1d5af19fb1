package dashboard

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/doctor", h.DoctorDashboard, auth.RequireRole(auth.RoleDoctor))
	api.GET("/dashboard/doctor/recent-patients", h.RecentPatients, auth.RequireRole(auth.RoleDoctor))
	api.GET("/dashboard/patient", h.PatientDashboard, auth.RequireRole(auth.RolePatient))
}

func (h *Handler) DoctorDashboard(c echo.Context) error {
	p, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	stats, err := h.svc.DoctorDashboard(c.Request().Context(), p)
	if err != nil {
		return dashboardError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) PatientDashboard(c echo.Context) error {
	p, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	stats, err := h.svc.PatientDashboard(c.Request().Context(), p)
	if err != nil {
		return dashboardError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) RecentPatients(c echo.Context) error {
	p, ok := auth.PrincipalFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	items, err := h.svc.RecentPatients(c.Request().Context(), p)
	if err != nil {
		return dashboardError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func dashboardError(err error) error {
	if errors.Is(err, ErrDoctorNotFound) || errors.Is(err, ErrPatientNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
