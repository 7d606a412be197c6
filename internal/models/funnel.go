package models

// Funnel is a campaign record supplied by the external persistence layer.
// This service only reads it.
type Funnel struct {
	ID         string        `json:"id"`
	BusinessID string        `json:"business_id"`
	Name       string        `json:"name"`
	Kind       FunnelKind    `json:"type"`
	Status     string        `json:"status"`
	Content    FunnelContent `json:"content"`
}

// FunnelContent is the kind-specific payload of a funnel.
type FunnelContent struct {
	State         ListingState `json:"state,omitempty"`
	Price         string       `json:"price,omitempty"`
	Address       string       `json:"address,omitempty"`
	OpenHouseAt   string       `json:"open_house_at,omitempty"` // ISO-8601
	AgentName     string       `json:"agent_name,omitempty"`
	AgentPhone    string       `json:"agent_phone,omitempty"`
	CustomMessage string       `json:"custom_message,omitempty"`
}

// Business is a merchant record supplied by the external persistence layer.
type Business struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AccentColor string    `json:"accent_color,omitempty"`
	VCard       VCardData `json:"vcard_data"`
}

// VCardData holds the contact-card details of a business.
type VCardData struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Website      string `json:"website,omitempty"`
	Street       string `json:"street,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
}

// PassCustomization is the per-funnel pass tuning stored in pass_configs.
type PassCustomization struct {
	BackgroundColor string `json:"background_color,omitempty"`
	ForegroundColor string `json:"foreground_color,omitempty"`
	LabelColor      string `json:"label_color,omitempty"`
	LogoAsset       string `json:"logo_asset,omitempty"`
	StripAsset      string `json:"strip_asset,omitempty"`
}
