package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/funnelkit/wallet-service/internal/certs"
	"github.com/funnelkit/wallet-service/internal/config"
)

// check-certs runs the certificate setup diagnostic and prints
// remediation steps for anything that would make signing fail.
func main() {
	var useEnv bool
	flag.BoolVar(&useEnv, "env", false, "check the environment-variable source instead of files")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	var src certs.Source
	if useEnv || cfg.IsProduction() {
		src = certs.EnvSource{}
	} else {
		src = certs.FileSource{
			CertPath:   cfg.CertPath,
			KeyPath:    cfg.KeyPath,
			WWDRPath:   cfg.WWDRPath,
			Passphrase: os.Getenv(certs.EnvKeyPassphrase),
		}
	}

	rep := certs.CheckSetup(src)
	fmt.Printf("source: %s\n", rep.Source)
	if rep.Ready {
		fmt.Println("certificate setup looks good")
		return
	}
	fmt.Println("problems:")
	for _, p := range rep.Problems {
		fmt.Println("  -", p)
	}
	if len(rep.Steps) > 0 {
		fmt.Println("next steps:")
		for _, s := range rep.Steps {
			fmt.Println("  -", s)
		}
	}
	os.Exit(1)
}
