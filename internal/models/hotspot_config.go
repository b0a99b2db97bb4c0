package models

// Defaults used when the singleton configuration row is created lazily.
const (
	DefaultSSID       = "SchoolHotspot"
	DefaultPassphrase = "school123"
)

// HotspotConfigID is the fixed primary key of the singleton row.
const HotspotConfigID = 1

// HotspotConfig is the single active SSID/passphrase record read by the
// QR generator and the connection instructions.
type HotspotConfig struct {
	ID         int    `db:"id" json:"-"`
	SSID       string `db:"ssid" json:"ssid"`
	Passphrase string `db:"passphrase" json:"passphrase"`
	Active     bool   `db:"is_active" json:"is_active"`
}
