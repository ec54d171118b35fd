// Package qrcode renders zone identifiers as scanable QR payloads.
//
// The payload is a PNG data URL whose QR content is exactly the zone
// identifier string, so a scan resolves directly back to the zone. The
// encoding is deterministic: the same identifier always yields the same
// payload bytes.
package qrcode

import (
	"encoding/base64"
	"fmt"

	qrc "github.com/skip2/go-qrcode"
)

const (
	// pngSize is the rendered image edge length in pixels.
	pngSize = 256

	// DataURLPrefix precedes the base64 image bytes in every payload.
	DataURLPrefix = "data:image/png;base64,"
)

// Generator implements ports.CodeGenerator.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (Generator) Generate(zoneID string) (string, error) {
	return Generate(zoneID)
}

// Generate returns the QR payload for zoneID as a PNG data URL.
func Generate(zoneID string) (string, error) {
	if zoneID == "" {
		return "", fmt.Errorf("qrcode: empty zone id")
	}
	png, err := qrc.Encode(zoneID, qrc.Medium, pngSize)
	if err != nil {
		return "", fmt.Errorf("qrcode: encode %q: %w", zoneID, err)
	}
	return DataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
