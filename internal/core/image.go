package core

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidImage is returned for data URLs that cannot be decoded into an
// image payload.
var ErrInvalidImage = errors.New("invalid image data")

// maxImageBytes bounds decoded uploads; Gemini rejects larger inline data.
const maxImageBytes = 4 << 20

// Image is an inline image attached to a chat message.
type Image struct {
	MIMEType string
	Data     []byte
}

// Ref is a stable content reference stored alongside the chat message.
func (img *Image) Ref() string {
	sum := sha256.Sum256(img.Data)
	return img.MIMEType + ";sha256:" + hex.EncodeToString(sum[:8])
}

// DecodeDataURL parses "data:<mime>;base64,<payload>". When the declared type
// is missing the payload is sniffed.
func DecodeDataURL(s string) (*Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidImage)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload separator", ErrInvalidImage)
	}
	mimeType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("%w: payload larger than %d bytes", ErrInvalidImage, maxImageBytes)
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidImage, mimeType)
	}
	return &Image{MIMEType: mimeType, Data: data}, nil
}
