package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	"campusevents/internal/domain"
)

type pngRenderer struct {
	level qrcode.RecoveryLevel
}

// NewRenderer returns a QR renderer using medium error correction.
func NewRenderer() domain.QRRenderer {
	return &pngRenderer{level: qrcode.Medium}
}

func (r *pngRenderer) PNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, r.level, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
