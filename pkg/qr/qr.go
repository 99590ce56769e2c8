// Package qr encodes worker badge payloads as QR code images.
package qr

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const badgeSize = 256

// BadgePNG encodes the payload as a square QR code PNG.
func BadgePNG(payload string) ([]byte, error) {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %w", err)
	}
	code, err = barcode.Scale(code, badgeSize, badgeSize)
	if err != nil {
		return nil, fmt.Errorf("scale qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}
	return buf.Bytes(), nil
}
