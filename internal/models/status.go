package models

// PassStatus is the lifecycle status of an installed pass instance.
type PassStatus string

const (
	StatusActive  PassStatus = "active"
	StatusExpired PassStatus = "expired"
	StatusRevoked PassStatus = "revoked"
)

// FunnelKind selects the field layout used when mapping funnel content
// into a pass. The set is closed: a new kind means a new mapping function.
type FunnelKind string

const (
	KindPropertyListing FunnelKind = "property_listing"
	KindContactCard     FunnelKind = "contact_card"
	KindGeneric         FunnelKind = "generic"
)

// ListingState is the sale state of a property-listing funnel.
type ListingState string

const (
	ListingForSale    ListingState = "for_sale"
	ListingSold       ListingState = "sold"
	ListingComingSoon ListingState = "coming_soon"
)
