package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/funnelkit/wallet-service/internal/certs"
	"github.com/funnelkit/wallet-service/internal/config"
	"github.com/funnelkit/wallet-service/internal/mapper"
	"github.com/funnelkit/wallet-service/internal/passkit"
	"github.com/funnelkit/wallet-service/internal/repo"
	svc "github.com/funnelkit/wallet-service/internal/service"
)

// gen-pass generates a signed .pkpass for a funnel without going through
// HTTP. With -seed it first inserts a demo business and funnel.
func main() {
	var (
		funnelID string
		out      string
		seed     bool
	)
	flag.StringVar(&funnelID, "funnel", "", "funnel id (required unless -seed)")
	flag.StringVar(&out, "out", "demo.pkpass", "output file")
	flag.BoolVar(&seed, "seed", false, "insert a demo funnel first")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := repo.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if seed {
		funnelID = seedDemoFunnel(ctx, pool)
	}
	if funnelID == "" {
		log.Fatal("either -funnel or -seed is required")
	}

	src := certs.FileSource{
		CertPath:   cfg.CertPath,
		KeyPath:    cfg.KeyPath,
		WWDRPath:   cfg.WWDRPath,
		Passphrase: os.Getenv(certs.EnvKeyPassphrase),
	}
	bundle, err := src.Load()
	if err != nil {
		log.Fatalf("certs: %v", err)
	}
	assets, err := passkit.LoadAssetDir(cfg.AssetsDir)
	if err != nil {
		log.Fatalf("assets: %v", err)
	}

	store := repo.NewStore(pool)
	s := svc.New(svc.Deps{
		Funnels:   store,
		Instances: store,
		Updates:   store,
		Builder: passkit.Builder{
			TeamID:           cfg.TeamID,
			PassTypeID:       cfg.PassTypeID,
			OrganizationName: cfg.OrganizationName,
			WebServiceURL:    cfg.WebServiceURL,
			Bundle:           bundle,
		},
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
	})

	res, err := s.GeneratePass(ctx, funnelID, "")
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	if err := os.WriteFile(out, res.Archive, 0o644); err != nil {
		log.Fatalf("write: %v", err)
	}
	fmt.Println("Serial:", res.SerialNumber)
	fmt.Println("Wrote:", out)
}

func seedDemoFunnel(ctx context.Context, pool *pgxpool.Pool) string {
	businessID := uuid.New().String()
	funnelID := uuid.New().String()
	_, err := pool.Exec(ctx, `INSERT INTO businesses (id, name, accent_color, vcard_data) VALUES ($1,$2,$3,$4)`,
		businessID, "Harbor Realty", "rgb(20,60,120)",
		`{"first_name":"Dana","last_name":"Reyes","organization":"Harbor Realty","phone":"+1 555 0147","email":"dana@harborrealty.test"}`)
	if err != nil {
		log.Fatalf("seed business: %v", err)
	}
	_, err = pool.Exec(ctx, `INSERT INTO funnels (id, business_id, name, type, status, content) VALUES ($1,$2,$3,$4,$5,$6)`,
		funnelID, businessID, "12 Marina Blvd", "property_listing", "published",
		`{"state":"for_sale","address":"12 Marina Blvd","open_house_at":"2025-10-08T17:00:00+11:00","agent_name":"Dana Reyes","agent_phone":"+1 555 0147"}`)
	if err != nil {
		log.Fatalf("seed funnel: %v", err)
	}
	log.Printf("seeded demo funnel %s", funnelID)
	return funnelID
}
