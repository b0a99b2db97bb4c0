// Package wifi builds WiFi provisioning payloads and QR images for the
// school hotspot, in the format understood by phone cameras.
package wifi

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultQRSize = 256

// Payload returns the provisioning string for a WPA network:
// WIFI:T:WPA;S:<ssid>;P:<passphrase>;;
func Payload(ssid, passphrase string) string {
	return fmt.Sprintf("WIFI:T:WPA;S:%s;P:%s;;", ssid, passphrase)
}

// QRCode renders the provisioning payload as a PNG of size x size pixels.
func QRCode(ssid, passphrase string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := qrcode.Encode(Payload(ssid, passphrase), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode wifi qr: %w", err)
	}
	return png, nil
}
