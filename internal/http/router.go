package http

import (
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/funnelkit/wallet-service/internal/certs"
	"github.com/funnelkit/wallet-service/internal/config"
	"github.com/funnelkit/wallet-service/internal/mapper"
	"github.com/funnelkit/wallet-service/internal/passkit"
	"github.com/funnelkit/wallet-service/internal/push"
	"github.com/funnelkit/wallet-service/internal/repo"
	svc "github.com/funnelkit/wallet-service/internal/service"
)

func Router(pool *pgxpool.Pool, cfg config.Config) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Binder = StrictJSONBinder{}
	e.HTTPErrorHandler = DefaultHTTPErrorHandler

	// Swagger UI (enabled with ENABLE_SWAGGER=true)
	if cfg.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	s, err := buildService(pool, cfg)
	if err != nil {
		return nil, err
	}

	v1 := e.Group("/api/v1")
	v1.GET("/healthz", Healthz)
	v1.GET("/readyz", Readyz(pool))

	v1.POST("/funnels/:id/pass", GeneratePass(s))
	v1.POST("/funnels/:id/dispatch", DispatchUpdates(s))
	v1.POST("/passes/:serial/revoke", RevokePass(s))

	// Apple PassKit Web Service v1; webServiceURL points at /api.
	v1.POST("/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier/:serialNumber", RegisterDevice(s))
	v1.DELETE("/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier/:serialNumber", UnregisterDevice(s))
	v1.GET("/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier", SerialsUpdatedSince(s))
	v1.GET("/passes/:passTypeIdentifier/:serialNumber", LatestPass(s))
	v1.POST("/log", DeviceLog())

	return e, nil
}

// buildService wires the store, certificate source, builder, pusher and
// assets into the use-case service.
func buildService(pool *pgxpool.Pool, cfg config.Config) (*svc.Service, error) {
	store := repo.NewStore(pool)

	var src certs.Source
	if cfg.IsProduction() {
		src = certs.EnvSource{}
	} else {
		src = certs.FileSource{
			CertPath:   cfg.CertPath,
			KeyPath:    cfg.KeyPath,
			WWDRPath:   cfg.WWDRPath,
			Passphrase: os.Getenv(certs.EnvKeyPassphrase),
		}
	}
	bundle, err := src.Load()
	if err != nil {
		return nil, err
	}
	if v := certs.Validate(bundle); !v.Valid {
		return nil, fmt.Errorf("%w: %s", certs.ErrCertificateLoad, v.Errors[0])
	}

	assets, err := passkit.LoadAssetDir(cfg.AssetsDir)
	if err != nil {
		return nil, err
	}

	var pusher svc.Pusher
	if cfg.AllowUpdates && cfg.APNSKeyPath != "" {
		keyPEM, err := os.ReadFile(cfg.APNSKeyPath)
		if err != nil {
			return nil, err
		}
		pusher, err = push.NewClient(keyPEM, cfg.APNSKeyID, cfg.TeamID, cfg.PassTypeID, cfg.APNSHost)
		if err != nil {
			return nil, err
		}
	}

	builder := passkit.Builder{
		TeamID:           cfg.TeamID,
		PassTypeID:       cfg.PassTypeID,
		OrganizationName: cfg.OrganizationName,
		WebServiceURL:    cfg.WebServiceURL,
		Bundle:           bundle,
	}
	return svc.New(svc.Deps{
		Funnels:    store,
		Instances:  store,
		Updates:    store,
		Builder:    builder,
		Pusher:     pusher,
		PassTypeID: cfg.PassTypeID,
		AppHost:    cfg.AppHost,
		MapOptions: mapper.Options{
			AppHost:         cfg.AppHost,
			BackgroundColor: cfg.BackgroundColor,
			ForegroundColor: cfg.ForegroundColor,
			LabelColor:      cfg.LabelColor,
		},
		Assets:      assets,
		MaxLifetime: cfg.MaxLifetime,
	}), nil
}
