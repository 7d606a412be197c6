package dto

// GeneratePassResponse is returned alongside the binary via headers; the
// JSON form is used by the JSON variant of the generation endpoint.
type GeneratePassResponse struct {
	SerialNumber string `json:"serial_number"`
	PassURL      string `json:"pass_url"`
}

// RegisterDeviceRequest is Apple's registration body.
type RegisterDeviceRequest struct {
	PushToken string `json:"pushToken"`
}

// SerialsResponse is Apple's updated-serials polling response.
type SerialsResponse struct {
	LastUpdated   string   `json:"lastUpdated"`
	SerialNumbers []string `json:"serialNumbers"`
}

// LogRequest is Apple's device-side error log sink payload.
type LogRequest struct {
	Logs []string `json:"logs"`
}

type RevokeResponse struct {
	SerialNumber string `json:"serial_number"`
	Status       string `json:"status"`
}

type DispatchResponse struct {
	FunnelID string `json:"funnel_id"`
	Updated  int    `json:"updated"`
}
