package repo

const (
	tableFunnels     = "funnels"
	tableBusinesses  = "businesses"
	tablePassConfigs = "pass_configs"
	tableInstances   = "pass_instances"
	tableUpdates     = "wallet_pass_updates"
)

const (
	colID              = "id"
	colSerialNumber    = "serial_number"
	colAuthToken       = "authentication_token"
	colFunnelID        = "funnel_id"
	colBusinessID      = "business_id"
	colDeviceLibraryID = "device_library_identifier"
	colPushToken       = "push_token"
	colStatus          = "status"
	colDownloadCount   = "download_count"
	colFirstDownloaded = "first_downloaded_at"
	colLastDownloaded  = "last_downloaded_at"
	colSnapshot        = "content_snapshot"
	colUpdateTag       = "update_tag"
	colCreatedAt       = "created_at"
	colUpdatedAt       = "updated_at"
)
