package tray

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"

	"github.com/rescale/mcnotify/internal/models"
)

// ErrIconDecode is returned when a server favicon cannot be used as an icon.
var ErrIconDecode = errors.New("icon decode failed")

// defaultIcon is shown when the server has no usable favicon.
//
//go:embed assets/icon.png
var defaultIcon []byte

const faviconPrefix = "data:image/png;base64,"

// DecodeIcon turns a status favicon data URI into PNG bytes.
func DecodeIcon(favicon string) ([]byte, error) {
	if favicon == "" {
		return nil, fmt.Errorf("%w: server has no favicon", ErrIconDecode)
	}
	if !strings.HasPrefix(favicon, faviconPrefix) {
		return nil, fmt.Errorf("%w: favicon is not a base64 PNG data URI", ErrIconDecode)
	}

	// Some servers wrap the base64 payload.
	payload := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, favicon[len(faviconPrefix):])

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIconDecode, err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIconDecode, err)
	}
	return data, nil
}

// IconFor returns the server favicon, or the default icon when the snapshot
// has none or it cannot be decoded.
func IconFor(snap *models.Snapshot) []byte {
	if snap == nil {
		return defaultIcon
	}
	data, err := DecodeIcon(snap.Favicon)
	if err != nil {
		return defaultIcon
	}
	return data
}
