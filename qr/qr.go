package qr

import (
	"fmt"

	encoder "github.com/skip2/go-qrcode"
)

const defaultImageSize = 512

// Processor encodes contract locations as QR codes so the customer can pull
// up the rendered contract on their own device.
type Processor interface {
	WriteQR(path string, data []byte) error
	EncodeQR(data []byte) ([]byte, error)
}

type CodeProcessor struct {
	recoveryLevel encoder.RecoveryLevel
	imageSize     int
}

func NewProcessor() *CodeProcessor {
	return &CodeProcessor{
		recoveryLevel: encoder.Medium,
		imageSize:     defaultImageSize,
	}
}

func (p *CodeProcessor) WriteQR(path string, data []byte) error {
	if err := encoder.WriteFile(string(data), p.recoveryLevel, p.imageSize, path); err != nil {
		return fmt.Errorf("failed to encode the data: %w", err)
	}
	return nil
}

func (p *CodeProcessor) EncodeQR(data []byte) ([]byte, error) {
	encoded, err := encoder.Encode(string(data), p.recoveryLevel, p.imageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode the data: %w", err)
	}
	return encoded, nil
}
