package mailer

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// BookingQRCode encodes content as a PNG QR code of size x size pixels.
func BookingQRCode(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
