package passkit

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"image"
	"image/png"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/funnelkit/wallet-service/internal/certs"
	"github.com/funnelkit/wallet-service/internal/models"
)

// testBundle builds a stand-in WWDR CA and a signer certificate issued by
// it, PEM-encoded the way the loader would deliver them. The signer must
// actually chain to the WWDR: AddSignerChain verifies issuer signatures.
func testBundle(t *testing.T) certs.Bundle {
	t.Helper()
	caKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	caTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Test Worldwide Developer Relations CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		IsCA:                  true,
		BasicConstraintsValid: true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTmpl, caTmpl, &caKey.PublicKey, caKey)
	require.NoError(t, err)
	caCert, err := x509.ParseCertificate(caDER)
	require.NoError(t, err)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "Pass Type ID: pass.test.wallet"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, caCert, &key.PublicKey, caKey)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	return certs.Bundle{
		Certificate: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		PrivateKey:  pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}),
		WWDR:        pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: caDER}),
	}
}

// testIcons returns the minimum icon set as real (tiny) PNGs.
func testIcons(t *testing.T) map[string][]byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	icon := buf.Bytes()
	out := make(map[string][]byte, len(RequiredIcons))
	for _, name := range RequiredIcons {
		out[name] = icon
	}
	return out
}

func testContent() models.PassContent {
	return models.PassContent{
		Description:      "12 Marina Blvd",
		OrganizationName: "Harbor Realty",
		BackgroundColor:  "rgb(20,60,120)",
		ForegroundColor:  "rgb(255,255,255)",
		Barcode: models.Barcode{
			Message:         "https://passes.example.test/f/fn-123",
			Format:          models.BarcodeFormatQR,
			MessageEncoding: "iso-8859-1",
		},
		Fields: models.FieldSet{
			PrimaryFields: []models.Field{{Key: "status", Value: "For Sale"}},
		},
	}
}

func testBuilder(t *testing.T) Builder {
	return Builder{
		TeamID:           "ABCDE12345",
		PassTypeID:       "pass.test.wallet",
		OrganizationName: "Harbor Realty",
		WebServiceURL:    "https://passes.example.test/api",
		Bundle:           testBundle(t),
	}
}
