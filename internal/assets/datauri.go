package assets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	// Register decoders for the formats screenshots arrive in
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ParseDataURI splits a data URI into its MIME type and raw bytes.
// Screenshots, logos and decorative assets travel through the system as
// self-contained data URIs, never as external references.
func ParseDataURI(uri string) (mimeType string, data []byte, err error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}

	rest := strings.TrimPrefix(uri, "data:")
	sep := strings.Index(rest, ",")
	if sep < 0 {
		return "", nil, fmt.Errorf("malformed data URI: missing comma")
	}

	meta := rest[:sep]
	payload := rest[sep+1:]

	mimeType = meta
	encoded := false
	if idx := strings.Index(meta, ";"); idx >= 0 {
		mimeType = meta[:idx]
		encoded = strings.Contains(meta[idx:], "base64")
	}
	if mimeType == "" {
		mimeType = "text/plain"
	}

	if encoded {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("failed to decode base64 payload: %w", err)
		}
	} else {
		data = []byte(payload)
	}

	return mimeType, data, nil
}

// EncodeDataURI wraps raw bytes in a base64 data URI
func EncodeDataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeImage decodes a data URI straight into an image
func DecodeImage(uri string) (image.Image, error) {
	_, data, err := ParseDataURI(uri)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
