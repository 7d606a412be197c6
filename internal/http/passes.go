package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/funnelkit/wallet-service/internal/http/dto"
	svc "github.com/funnelkit/wallet-service/internal/service"
)

// GeneratePass — generate and download a signed pass for a funnel
// @Summary     Generate the wallet pass for a funnel
// @Tags        passes
// @Produce     application/vnd.apple.pkpass
// @Param       id     path  string true  "Funnel ID"
// @Param       device query string false "Device library identifier"
// @Success     200 {file} binary
// @Failure     404 {object} APIError
// @Failure     409 {object} APIError
// @Router      /funnels/{id}/pass [post]
func GeneratePass(s *svc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		funnelID := strings.TrimSpace(c.Param("id"))
		if funnelID == "" {
			return writeJSON(c, http.StatusBadRequest, APIError{Code: "invalid_request", Message: "funnel id required"})
		}
		out, err := s.GeneratePass(c.Request().Context(), funnelID, c.QueryParam("device"))
		if err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}
		c.Response().Header().Set("X-Pass-Serial-Number", out.SerialNumber)
		c.Response().Header().Set("X-Pass-URL", out.PassURL)
		return writePass(c, out.Archive)
	}
}

// RevokePass — revoke an installed pass
// @Summary     Revoke a pass by serial number
// @Tags        passes
// @Produce     json
// @Param       serial path string true "Pass serial number"
// @Success     200 {object} dto.RevokeResponse
// @Failure     404 {object} APIError
// @Failure     409 {object} APIError
// @Router      /passes/{serial}/revoke [post]
func RevokePass(s *svc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		serial := strings.TrimSpace(c.Param("serial"))
		if serial == "" {
			return writeJSON(c, http.StatusBadRequest, APIError{Code: "invalid_request", Message: "serial required"})
		}
		if err := s.RevokePass(c.Request().Context(), serial); err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}
		return writeJSON(c, http.StatusOK, dto.RevokeResponse{SerialNumber: serial, Status: "revoked"})
	}
}

// DispatchUpdates — run the update dispatcher after funnel content changed
// @Summary     Diff and push updates for every installed pass of a funnel
// @Tags        passes
// @Produce     json
// @Param       id path string true "Funnel ID"
// @Success     200 {object} dto.DispatchResponse
// @Failure     404 {object} APIError
// @Router      /funnels/{id}/dispatch [post]
func DispatchUpdates(s *svc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		funnelID := strings.TrimSpace(c.Param("id"))
		if funnelID == "" {
			return writeJSON(c, http.StatusBadRequest, APIError{Code: "invalid_request", Message: "funnel id required"})
		}
		updated, err := s.DispatchFunnelUpdates(c.Request().Context(), funnelID)
		if err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}
		return writeJSON(c, http.StatusOK, dto.DispatchResponse{FunnelID: funnelID, Updated: updated})
	}
}
