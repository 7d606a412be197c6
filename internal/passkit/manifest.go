package passkit

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// ManifestName and SignatureName are the two archive members excluded
// from the manifest itself.
const (
	ManifestName  = "manifest.json"
	SignatureName = "signature"
	PassName      = "pass.json"
)

// BuildManifest maps every archive member to the lowercase-hex SHA-1 of
// its exact bytes. SHA-1 is mandated by the pass format. The manifest must
// cover pass.json and every asset, and nothing else: a mismatch is the
// most common cause of Wallet silently rejecting a pass.
func BuildManifest(files map[string][]byte) ([]byte, error) {
	digests := make(map[string]string, len(files))
	for name, data := range files {
		if name == ManifestName || name == SignatureName {
			return nil, fmt.Errorf("%w: %s must not be added as an asset", ErrPackaging, name)
		}
		if strings.Contains(name, "/") {
			return nil, fmt.Errorf("%w: %s: archive members must live at the root", ErrPackaging, name)
		}
		sum := sha1.Sum(data)
		digests[name] = hex.EncodeToString(sum[:])
	}
	return json.Marshal(digests)
}
