// Package certs resolves and validates the three PEM artifacts required
// for pass signing: the signer certificate, its private key, and the Apple
// WWDR intermediate certificate.
package certs

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// Environment variables holding full PEM text in production deployments.
const (
	EnvCert          = "PASS_CERT_PEM"
	EnvKey           = "PASS_KEY_PEM"
	EnvWWDR          = "PASS_WWDR_PEM"
	EnvKeyPassphrase = "PASS_KEY_PASSPHRASE"
)

var ErrCertificateLoad = errors.New("certificate_load")

// Bundle holds the three PEM buffers for one signing operation. It is
// never persisted; callers load it once per process (or per invocation in
// serverless runtimes) and pass it into the builder.
type Bundle struct {
	Certificate   []byte
	PrivateKey    []byte
	WWDR          []byte
	KeyPassphrase string
}

// Source loads a certificate bundle. The implementation is selected once
// at startup: environment variables in production, files in development.
type Source interface {
	Load() (Bundle, error)
	Describe() string
}

// EnvSource reads full PEM text from environment variables.
type EnvSource struct{}

func (EnvSource) Describe() string { return "environment" }

func (EnvSource) Load() (Bundle, error) {
	b := Bundle{
		Certificate:   []byte(os.Getenv(EnvCert)),
		PrivateKey:    []byte(os.Getenv(EnvKey)),
		WWDR:          []byte(os.Getenv(EnvWWDR)),
		KeyPassphrase: os.Getenv(EnvKeyPassphrase),
	}
	for _, a := range []struct {
		name string
		data []byte
	}{
		{EnvCert, b.Certificate},
		{EnvKey, b.PrivateKey},
		{EnvWWDR, b.WWDR},
	} {
		if len(a.data) == 0 {
			return Bundle{}, fmt.Errorf("%w: env %s is empty", ErrCertificateLoad, a.name)
		}
	}
	return b, nil
}

// FileSource reads the three PEM files from disk.
type FileSource struct {
	CertPath   string
	KeyPath    string
	WWDRPath   string
	Passphrase string
}

func (s FileSource) Describe() string { return "filesystem" }

func (s FileSource) Load() (Bundle, error) {
	cert, err := readPEMFile(s.CertPath)
	if err != nil {
		return Bundle{}, err
	}
	key, err := readPEMFile(s.KeyPath)
	if err != nil {
		return Bundle{}, err
	}
	wwdr, err := readPEMFile(s.WWDRPath)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{Certificate: cert, PrivateKey: key, WWDR: wwdr, KeyPassphrase: s.Passphrase}, nil
}

func readPEMFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCertificateLoad, path, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrCertificateLoad, path)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("%w: %s is not UTF-8 text (expected PEM)", ErrCertificateLoad, path)
	}
	return b, nil
}
