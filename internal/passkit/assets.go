package passkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RequiredIcons are the minimum asset set Wallet demands.
var RequiredIcons = []string{"icon.png", "icon@2x.png", "icon@3x.png"}

// LoadAssetDir reads every PNG in dir into an asset map keyed by archive
// filename. Subdirectories are skipped; the archive is flat.
func LoadAssetDir(dir string) (map[string][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: assets: %v", ErrPackaging, err)
	}
	out := make(map[string][]byte)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: assets: %s: %v", ErrPackaging, e.Name(), err)
		}
		out[e.Name()] = b
	}
	return out, nil
}

func checkRequiredIcons(assets map[string][]byte) error {
	for _, name := range RequiredIcons {
		if len(assets[name]) == 0 {
			return fmt.Errorf("%w: missing required asset %s", ErrValidation, name)
		}
	}
	return nil
}
