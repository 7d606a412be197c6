package models

// Field is one display field inside a pass section.
type Field struct {
	Key           string `json:"key"`
	Label         string `json:"label,omitempty"`
	Value         string `json:"value"`
	TextAlignment string `json:"textAlignment,omitempty"`
}

// Apple's field alignment constants.
const (
	AlignLeft   = "PKTextAlignmentLeft"
	AlignCenter = "PKTextAlignmentCenter"
	AlignRight  = "PKTextAlignmentRight"
)

// Barcode is the scannable payload of a pass. Message carries the funnel
// deep link; format is always QR.
type Barcode struct {
	Message         string `json:"message"`
	Format          string `json:"format"`
	MessageEncoding string `json:"messageEncoding"`
	AltText         string `json:"altText,omitempty"`
}

// BarcodeFormatQR is the only barcode format this service emits.
const BarcodeFormatQR = "PKBarcodeFormatQR"

// FieldSet groups the five pass sections.
type FieldSet struct {
	HeaderFields    []Field `json:"headerFields,omitempty"`
	PrimaryFields   []Field `json:"primaryFields,omitempty"`
	SecondaryFields []Field `json:"secondaryFields,omitempty"`
	AuxiliaryFields []Field `json:"auxiliaryFields,omitempty"`
	BackFields      []Field `json:"backFields,omitempty"`
}

// PassContent is the mapper output: everything funnel-derived that goes
// into pass.json, independent of identifiers and certificates. It is also
// the snapshot persisted per instance and diffed by the update dispatcher.
type PassContent struct {
	Description      string            `json:"description"`
	OrganizationName string            `json:"organizationName"`
	LogoText         string            `json:"logoText,omitempty"`
	BackgroundColor  string            `json:"backgroundColor,omitempty"`
	ForegroundColor  string            `json:"foregroundColor,omitempty"`
	LabelColor       string            `json:"labelColor,omitempty"`
	Barcode          Barcode           `json:"barcode"`
	UserInfo         map[string]string `json:"userInfo,omitempty"`
	Fields           FieldSet          `json:"fields"`
}
