package passkit

import (
	"encoding/json"
	"fmt"

	"github.com/funnelkit/wallet-service/internal/certs"
	"github.com/funnelkit/wallet-service/internal/models"
)

// Builder runs the generation pipeline:
//
//	Initialized -> AssetsCollected -> ManifestComputed -> Signed -> Packaged
//
// It holds no mutable state and is safe for concurrent use; every call
// works on its own serial number and buffers.
type Builder struct {
	TeamID           string
	PassTypeID       string
	OrganizationName string
	WebServiceURL    string
	Bundle           certs.Bundle
}

// Request describes one generation. Serial and token are generated when
// empty; an update regeneration passes the instance's existing pair so the
// device keeps its identity.
type Request struct {
	SerialNumber        string
	AuthenticationToken string
	Content             models.PassContent
	Assets              map[string][]byte
}

// Result carries the signed archive plus the intermediate artifacts the
// caller persists (snapshot digests, registry identifiers).
type Result struct {
	SerialNumber        string
	AuthenticationToken string
	PassJSON            []byte
	Manifest            []byte
	Archive             []byte
}

// Generate produces a signed .pkpass. Certificate problems abort before
// the manifest step; validation problems abort before anything else.
func (b Builder) Generate(req Request) (Result, error) {
	// Certificates must be usable before any resource is committed.
	if v := certs.Validate(b.Bundle); !v.Valid {
		return Result{}, fmt.Errorf("%w: %s", certs.ErrCertificateLoad, v.Errors[0])
	}

	serial := req.SerialNumber
	if serial == "" {
		serial = NewSerialNumber()
	}
	token := req.AuthenticationToken
	if token == "" {
		var err error
		if token, err = NewAuthenticationToken(); err != nil {
			return Result{}, fmt.Errorf("%w: token: %v", ErrSigning, err)
		}
	}

	pass := b.passFor(serial, token, req.Content)
	if err := pass.Validate(); err != nil {
		return Result{}, err
	}
	if err := checkRequiredIcons(req.Assets); err != nil {
		return Result{}, err
	}

	passJSON, err := json.Marshal(pass)
	if err != nil {
		return Result{}, fmt.Errorf("%w: pass.json: %v", ErrPackaging, err)
	}

	members := make(map[string][]byte, len(req.Assets)+1)
	for name, data := range req.Assets {
		members[name] = data
	}
	members[PassName] = passJSON

	manifest, err := BuildManifest(members)
	if err != nil {
		return Result{}, err
	}

	signature, err := Sign(manifest, b.Bundle)
	if err != nil {
		return Result{}, err
	}

	members[ManifestName] = manifest
	members[SignatureName] = signature
	archive, err := WriteArchive(members)
	if err != nil {
		return Result{}, err
	}

	return Result{
		SerialNumber:        serial,
		AuthenticationToken: token,
		PassJSON:            passJSON,
		Manifest:            manifest,
		Archive:             archive,
	}, nil
}

func (b Builder) passFor(serial, token string, c models.PassContent) Pass {
	barcode := c.Barcode
	fields := c.Fields
	return Pass{
		FormatVersion:       FormatVersion,
		PassTypeIdentifier:  b.PassTypeID,
		SerialNumber:        serial,
		TeamIdentifier:      b.TeamID,
		OrganizationName:    orDefault(c.OrganizationName, b.OrganizationName),
		Description:         c.Description,
		LogoText:            c.LogoText,
		ForegroundColor:     c.ForegroundColor,
		BackgroundColor:     c.BackgroundColor,
		LabelColor:          c.LabelColor,
		WebServiceURL:       b.WebServiceURL,
		AuthenticationToken: token,
		Barcode:             &barcode,
		Barcodes:            []models.Barcode{barcode},
		UserInfo:            c.UserInfo,
		Generic:             &fields,
	}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
