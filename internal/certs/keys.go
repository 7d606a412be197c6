package certs

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// ParseSigner decodes the bundle into the concrete crypto types used by
// the PKCS#7 signing step.
func ParseSigner(b Bundle) (cert *x509.Certificate, key crypto.PrivateKey, wwdr *x509.Certificate, err error) {
	cert, err = parseCertificate(b.Certificate, "signer certificate")
	if err != nil {
		return nil, nil, nil, err
	}
	key, err = parsePrivateKey(b.PrivateKey, b.KeyPassphrase)
	if err != nil {
		return nil, nil, nil, err
	}
	wwdr, err = parseCertificate(b.WWDR, "WWDR certificate")
	if err != nil {
		return nil, nil, nil, err
	}
	return cert, key, wwdr, nil
}

func parseCertificate(pemBytes []byte, what string) (*x509.Certificate, error) {
	for rest := pemBytes; len(rest) > 0; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type == "CERTIFICATE" {
			c, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrCertificateLoad, what, err)
			}
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s: no CERTIFICATE block found", ErrCertificateLoad, what)
}

func parsePrivateKey(pemBytes []byte, passphrase string) (crypto.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("%w: private key: no PEM block found", ErrCertificateLoad)
	}
	der := block.Bytes
	if x509.IsEncryptedPEMBlock(block) { //nolint:staticcheck // legacy exported keys still use RFC 1423
		var err error
		der, err = x509.DecryptPEMBlock(block, []byte(passphrase)) //nolint:staticcheck
		if err != nil {
			return nil, fmt.Errorf("%w: private key: decrypt: %v", ErrCertificateLoad, err)
		}
	}
	if k, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return k, nil
	}
	if k, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return k, nil
	}
	if k, err := x509.ParseECPrivateKey(der); err == nil {
		return k, nil
	}
	return nil, fmt.Errorf("%w: private key: unsupported key format", ErrCertificateLoad)
}
