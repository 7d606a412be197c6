package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/funnelkit/wallet-service/internal/http/dto"
	svc "github.com/funnelkit/wallet-service/internal/service"
)

// Apple PassKit Web Service protocol, version 1. These handlers are the
// callback surface the pass's webServiceURL points at; the secret that
// authorizes them is the authenticationToken baked into each pass.

// applePassToken extracts the token from "Authorization: ApplePass <t>".
func applePassToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "ApplePass "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// RegisterDevice — Apple device registration callback
// @Summary     Register a device for pass update notifications
// @Tags        apple
// @Accept      json
// @Param       deviceLibraryIdentifier path string true "Device library identifier"
// @Param       passTypeIdentifier      path string true "Pass type identifier"
// @Param       serialNumber            path string true "Pass serial number"
// @Param       request body dto.RegisterDeviceRequest true "Push token"
// @Success     201
// @Success     200
// @Failure     401 {object} APIError
// @Router      /devices/{deviceLibraryIdentifier}/registrations/{passTypeIdentifier}/{serialNumber} [post]
func RegisterDevice(s *svc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.RegisterDeviceRequest
		if err := c.Bind(&req); err != nil {
			return writeJSON(c, http.StatusBadRequest, APIError{Code: "invalid_request", Message: "malformed"})
		}
		err := s.RegisterDevice(c.Request().Context(),
			c.Param("deviceLibraryIdentifier"), c.Param("passTypeIdentifier"),
			c.Param("serialNumber"), applePassToken(c), req.PushToken)
		if err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}
		return c.NoContent(http.StatusCreated)
	}
}

// UnregisterDevice — Apple device unregistration callback
// @Summary     Unregister a device
// @Tags        apple
// @Param       deviceLibraryIdentifier path string true "Device library identifier"
// @Param       passTypeIdentifier      path string true "Pass type identifier"
// @Param       serialNumber            path string true "Pass serial number"
// @Success     200
// @Failure     401 {object} APIError
// @Router      /devices/{deviceLibraryIdentifier}/registrations/{passTypeIdentifier}/{serialNumber} [delete]
func UnregisterDevice(s *svc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := s.UnregisterDevice(c.Request().Context(),
			c.Param("deviceLibraryIdentifier"), c.Param("passTypeIdentifier"),
			c.Param("serialNumber"), applePassToken(c))
		if err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}
		return c.NoContent(http.StatusOK)
	}
}

// SerialsUpdatedSince — Apple update polling callback
// @Summary     List serial numbers updated since a tag
// @Tags        apple
// @Produce     json
// @Param       deviceLibraryIdentifier path  string true  "Device library identifier"
// @Param       passTypeIdentifier      path  string true  "Pass type identifier"
// @Param       passesUpdatedSince      query string false "Previous lastUpdated tag"
// @Success     200 {object} dto.SerialsResponse
// @Success     204
// @Router      /devices/{deviceLibraryIdentifier}/registrations/{passTypeIdentifier} [get]
func SerialsUpdatedSince(s *svc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		serials, tag, err := s.SerialsUpdatedSince(c.Request().Context(),
			c.Param("deviceLibraryIdentifier"), c.Param("passTypeIdentifier"),
			c.QueryParam("passesUpdatedSince"))
		if err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}
		if len(serials) == 0 {
			return c.NoContent(http.StatusNoContent)
		}
		return writeJSON(c, http.StatusOK, dto.SerialsResponse{LastUpdated: tag, SerialNumbers: serials})
	}
}

// LatestPass — Apple authenticated pass re-download
// @Summary     Download the latest version of a pass
// @Tags        apple
// @Produce     application/vnd.apple.pkpass
// @Param       passTypeIdentifier path string true "Pass type identifier"
// @Param       serialNumber       path string true "Pass serial number"
// @Success     200 {file} binary
// @Failure     401 {object} APIError
// @Failure     404 {object} APIError
// @Router      /passes/{passTypeIdentifier}/{serialNumber} [get]
func LatestPass(s *svc.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		archive, err := s.LatestPass(c.Request().Context(),
			c.Param("passTypeIdentifier"), c.Param("serialNumber"), applePassToken(c))
		if err != nil {
			status, body := MapError(err)
			return writeJSON(c, status, body)
		}
		return writePass(c, archive)
	}
}

// DeviceLog — Apple device error log sink
// @Summary     Receive device-side PassKit error logs
// @Tags        apple
// @Accept      json
// @Param       request body dto.LogRequest true "Log lines"
// @Success     200
// @Router      /log [post]
func DeviceLog() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LogRequest
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusOK)
		}
		for _, line := range req.Logs {
			log.Printf("passkit device log: %s", line)
		}
		return c.NoContent(http.StatusOK)
	}
}
