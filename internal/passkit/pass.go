// Package passkit assembles, signs and packages Apple Wallet .pkpass
// archives. The container format is externally mandated: a stored-entry
// ZIP holding pass.json, a SHA-1 manifest of every member, and a detached
// PKCS#7 signature over the exact manifest bytes.
package passkit

import (
	"errors"
	"fmt"

	"github.com/funnelkit/wallet-service/internal/models"
)

var (
	ErrValidation = errors.New("pass_validation")
	ErrSigning    = errors.New("pass_signing")
	ErrPackaging  = errors.New("pass_packaging")
)

// FormatVersion is fixed by the pass format; Wallet rejects anything else.
const FormatVersion = 1

// Pass is the pass.json document. Field names and casing are Apple's.
type Pass struct {
	FormatVersion       int               `json:"formatVersion"`
	PassTypeIdentifier  string            `json:"passTypeIdentifier"`
	SerialNumber        string            `json:"serialNumber"`
	TeamIdentifier      string            `json:"teamIdentifier"`
	OrganizationName    string            `json:"organizationName"`
	Description         string            `json:"description"`
	LogoText            string            `json:"logoText,omitempty"`
	ForegroundColor     string            `json:"foregroundColor,omitempty"`
	BackgroundColor     string            `json:"backgroundColor,omitempty"`
	LabelColor          string            `json:"labelColor,omitempty"`
	WebServiceURL       string            `json:"webServiceURL,omitempty"`
	AuthenticationToken string            `json:"authenticationToken,omitempty"`
	Barcode             *models.Barcode   `json:"barcode,omitempty"`
	Barcodes            []models.Barcode  `json:"barcodes,omitempty"`
	UserInfo            map[string]string `json:"userInfo,omitempty"`
	Generic             *models.FieldSet  `json:"generic,omitempty"`
}

// Validate enforces the pre-signing schema rules. Violations abort the
// pipeline before any resource is committed; nothing is silently defaulted.
func (p Pass) Validate() error {
	if p.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: formatVersion must be %d", ErrValidation, FormatVersion)
	}
	if len(p.TeamIdentifier) != 10 {
		return fmt.Errorf("%w: teamIdentifier must be exactly 10 characters", ErrValidation)
	}
	for _, f := range []struct{ name, v string }{
		{"passTypeIdentifier", p.PassTypeIdentifier},
		{"serialNumber", p.SerialNumber},
		{"organizationName", p.OrganizationName},
		{"description", p.Description},
		{"authenticationToken", p.AuthenticationToken},
	} {
		if f.v == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, f.name)
		}
	}
	return nil
}
