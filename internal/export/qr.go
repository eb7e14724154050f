package export

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// QRImage renders link as a QR code size pixels wide.
func QRImage(link string, size int) (image.Image, error) {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return q.Image(size), nil
}

// QRText renders link as a QR code made of terminal block characters.
func QRText(link string) (string, error) {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return q.ToSmallString(false), nil
}

// SaveQR writes link as a PNG QR code.
func SaveQR(path, link string, size int) error {
	if err := qrcode.WriteFile(link, qrcode.Medium, size, path); err != nil {
		return fmt.Errorf("write qr %s: %w", path, err)
	}
	return nil
}
