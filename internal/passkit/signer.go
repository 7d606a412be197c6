package passkit

import (
	"crypto/x509"
	"fmt"

	"go.mozilla.org/pkcs7"

	"github.com/funnelkit/wallet-service/internal/certs"
)

// Sign produces the DER-encoded detached PKCS#7 signature over the exact
// manifest bytes. The signer certificate and key sign; the WWDR
// intermediate rides along in the certificate chain. Digest is SHA-1 —
// an external compatibility constraint of the pass format, not a choice.
func Sign(manifest []byte, bundle certs.Bundle) ([]byte, error) {
	cert, key, wwdr, err := certs.ParseSigner(bundle)
	if err != nil {
		return nil, err
	}
	sd, err := pkcs7.NewSignedData(manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: init: %v", ErrSigning, err)
	}
	sd.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA1)
	if err := sd.AddSignerChain(cert, key, []*x509.Certificate{wwdr}, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("%w: add signer: %v", ErrSigning, err)
	}
	sd.Detach()
	der, err := sd.Finish()
	if err != nil {
		return nil, fmt.Errorf("%w: finish: %v", ErrSigning, err)
	}
	return der, nil
}
