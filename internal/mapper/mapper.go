// Package mapper turns funnel and business records into pass content.
// Mapping is pure and deterministic: no I/O, no clock, no randomness.
package mapper

import (
	"fmt"
	"strings"

	"github.com/funnelkit/wallet-service/internal/models"
)

// Options carries the config-derived defaults a mapping needs. The funnel
// customization, when present, wins over these.
type Options struct {
	AppHost         string
	BackgroundColor string
	ForegroundColor string
	LabelColor      string
}

// MapFunnel dispatches on the funnel kind to one of the field layouts.
// The kind set is closed; unknown kinds take the generic fallback arm.
func MapFunnel(f models.Funnel, b models.Business, opts Options) models.PassContent {
	c := models.PassContent{
		Description:      description(f, b),
		OrganizationName: b.Name,
		BackgroundColor:  opts.BackgroundColor,
		ForegroundColor:  opts.ForegroundColor,
		LabelColor:       opts.LabelColor,
		Barcode:          barcodeFor(f, opts.AppHost),
		UserInfo: map[string]string{
			"funnel_id":   f.ID,
			"business_id": b.ID,
		},
	}
	switch f.Kind {
	case models.KindPropertyListing:
		mapPropertyListing(&c, f, b)
	case models.KindContactCard:
		mapContactCard(&c, f, b)
	default:
		mapGeneric(&c, f, b)
	}
	return c
}

// mapPropertyListing emphasizes sale status, open-house time and agent
// contact. Background takes the business accent color when set.
func mapPropertyListing(c *models.PassContent, f models.Funnel, b models.Business) {
	if b.AccentColor != "" {
		c.BackgroundColor = b.AccentColor
	}
	if f.Content.Address != "" {
		c.LogoText = f.Content.Address
	} else {
		c.LogoText = b.Name
	}
	c.Fields.HeaderFields = []models.Field{
		{Key: "company", Value: b.Name, TextAlignment: models.AlignRight},
	}
	if label := ListingStateLabel(f.Content.State); label != "" {
		c.Fields.PrimaryFields = []models.Field{{Key: "status", Value: label}}
	}
	if f.Content.OpenHouseAt != "" {
		if formatted, ok := FormatOpenHouse(f.Content.OpenHouseAt); ok {
			c.Fields.SecondaryFields = append(c.Fields.SecondaryFields,
				models.Field{Key: "open_house", Label: "OPEN HOUSE", Value: formatted})
		}
	}
	if f.Content.AgentName != "" {
		c.Fields.AuxiliaryFields = append(c.Fields.AuxiliaryFields,
			models.Field{Key: "agent", Label: "AGENT", Value: f.Content.AgentName})
	}
	if f.Content.AgentPhone != "" {
		c.Fields.AuxiliaryFields = append(c.Fields.AuxiliaryFields,
			models.Field{Key: "agent_phone", Label: "PHONE", Value: f.Content.AgentPhone})
	}
}

// mapContactCard emphasizes who the business is and how to reach it.
func mapContactCard(c *models.PassContent, f models.Funnel, b models.Business) {
	v := b.VCard
	org := v.Organization
	if org == "" {
		org = b.Name
	}
	c.LogoText = b.Name
	c.Fields.HeaderFields = []models.Field{
		{Key: "org", Value: org, TextAlignment: models.AlignRight},
	}
	if name := strings.TrimSpace(v.FirstName + " " + v.LastName); name != "" {
		c.Fields.PrimaryFields = []models.Field{{Key: "name", Value: name}}
	}
	if v.Phone != "" {
		c.Fields.SecondaryFields = append(c.Fields.SecondaryFields,
			models.Field{Key: "phone", Label: "PHONE", Value: v.Phone})
	}
	if v.Email != "" {
		c.Fields.AuxiliaryFields = append(c.Fields.AuxiliaryFields,
			models.Field{Key: "email", Label: "EMAIL", Value: v.Email})
	}
	if v.Website != "" {
		c.Fields.BackFields = append(c.Fields.BackFields,
			models.Field{Key: "website", Label: "Website", Value: v.Website})
	}
	if addr := formatAddress(v); addr != "" {
		c.Fields.BackFields = append(c.Fields.BackFields,
			models.Field{Key: "address", Label: "Address", Value: addr})
	}
}

// mapGeneric is the fallback layout for unknown funnel kinds.
func mapGeneric(c *models.PassContent, f models.Funnel, b models.Business) {
	c.LogoText = b.Name
	c.Fields.HeaderFields = []models.Field{
		{Key: "business", Value: b.Name, TextAlignment: models.AlignRight},
	}
	if f.Name != "" {
		c.Fields.PrimaryFields = []models.Field{{Key: "campaign", Value: f.Name}}
	}
	if b.VCard.Phone != "" {
		c.Fields.SecondaryFields = append(c.Fields.SecondaryFields,
			models.Field{Key: "phone", Label: "PHONE", Value: b.VCard.Phone})
	}
}

// DeepLink is the stable funnel URL carried by every barcode.
func DeepLink(appHost, funnelID string) string {
	return fmt.Sprintf("https://%s/f/%s", appHost, funnelID)
}

func barcodeFor(f models.Funnel, appHost string) models.Barcode {
	return models.Barcode{
		Message:         DeepLink(appHost, f.ID),
		Format:          models.BarcodeFormatQR,
		MessageEncoding: "iso-8859-1",
		AltText:         "Scan to open " + f.Name,
	}
}

// ListingStateLabel maps the listing state enum to its display word.
func ListingStateLabel(s models.ListingState) string {
	switch s {
	case models.ListingForSale:
		return "For Sale"
	case models.ListingSold:
		return "Sold"
	case models.ListingComingSoon:
		return "Coming Soon"
	}
	// Unknown state: humanize rather than leak the raw enum.
	words := strings.Fields(strings.ReplaceAll(string(s), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func description(f models.Funnel, b models.Business) string {
	if f.Name != "" {
		return f.Name
	}
	return b.Name + " pass"
}

func formatAddress(v models.VCardData) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{v.Street, v.City, v.State, v.PostalCode, v.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
