package services

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// qrImageSize is the rendered PNG edge in pixels.
const qrImageSize = 512

type QRService struct{}

// MakeBase64 renders a URL into a PNG data URI at error-correction level
// Medium, suitable for embedding directly in JSON responses.
func (s QRService) MakeBase64(text string) (string, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", err
	}
	b64 := base64.StdEncoding.EncodeToString(png)
	return "data:image/png;base64," + b64, nil
}
