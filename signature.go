package rtiform

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"slices"
	"strings"
)

// ImageFormat names a raster encoding accepted for signatures.
type ImageFormat string

// Supported signature formats.
const (
	ImagePNG  ImageFormat = "PNG"
	ImageJPEG ImageFormat = "JPEG"
)

// MIME returns the media type of the format.
func (f ImageFormat) MIME() string {
	switch f {
	case ImagePNG:
		return "image/png"
	case ImageJPEG:
		return "image/jpeg"
	default:
		return ""
	}
}

// MaxSignatureSize caps signature images read from files and data URLs.
const MaxSignatureSize = 5 << 20

// SignatureAsset is an encoded signature image. The zero value is empty.
type SignatureAsset struct {
	Data   []byte
	Format ImageFormat
}

// IsEmpty reports whether no image data is stored.
func (a SignatureAsset) IsEmpty() bool {
	return len(a.Data) == 0
}

// Clone returns a copy that does not share Data.
func (a SignatureAsset) Clone() SignatureAsset {
	return SignatureAsset{Data: slices.Clone(a.Data), Format: a.Format}
}

// Validate decodes the image header and checks it matches Format.
func (a SignatureAsset) Validate() error {
	if a.IsEmpty() {
		return ErrEmptySignature
	}
	cfg, name, err := image.DecodeConfig(bytes.NewReader(a.Data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	got, ok := formatFromDecoder(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, name)
	}
	if a.Format != "" && got != a.Format {
		return fmt.Errorf("%w: declared %s but data is %s", ErrInvalidSignature, a.Format, got)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("%w: zero-sized image", ErrInvalidSignature)
	}
	return nil
}

// DataURL encodes the asset as a base64 data URL.
func (a SignatureAsset) DataURL() string {
	mime := a.Format.MIME()
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// NewSignatureAsset wraps raw image bytes, detecting the format from content.
func NewSignatureAsset(data []byte) (SignatureAsset, error) {
	if len(data) == 0 {
		return SignatureAsset{}, ErrEmptySignature
	}
	if len(data) > MaxSignatureSize {
		return SignatureAsset{}, fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidSignature, len(data), MaxSignatureSize)
	}
	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return SignatureAsset{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	format, ok := formatFromDecoder(name)
	if !ok {
		return SignatureAsset{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, name)
	}
	return SignatureAsset{Data: data, Format: format}, nil
}

// ParseDataURL decodes "data:image/png;base64,..." into an asset.
// The payload must decode as the declared image type.
func ParseDataURL(s string) (SignatureAsset, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return SignatureAsset{}, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURL)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return SignatureAsset{}, fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}
	mime, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return SignatureAsset{}, fmt.Errorf("%w: only base64 encoding is supported", ErrInvalidDataURL)
	}

	var declared ImageFormat
	switch strings.ToLower(mime) {
	case "image/png":
		declared = ImagePNG
	case "image/jpeg", "image/jpg":
		declared = ImageJPEG
	default:
		return SignatureAsset{}, fmt.Errorf("%w: %q", ErrUnsupportedImage, mime)
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxSignatureSize {
		return SignatureAsset{}, fmt.Errorf("%w: payload exceeds %d bytes", ErrInvalidDataURL, MaxSignatureSize)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return SignatureAsset{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}

	asset := SignatureAsset{Data: data, Format: declared}
	if err := asset.Validate(); err != nil {
		return SignatureAsset{}, err
	}
	return asset, nil
}

// LoadSignatureFile reads a PNG or JPEG signature image from disk.
func LoadSignatureFile(path string) (SignatureAsset, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SignatureAsset{}, fmt.Errorf("%w: %s", ErrSignatureImageNotFound, path)
		}
		return SignatureAsset{}, fmt.Errorf("reading signature: %w", err)
	}
	if info.IsDir() {
		return SignatureAsset{}, fmt.Errorf("%w: %s is a directory", ErrSignatureImageNotFound, path)
	}
	if info.Size() > MaxSignatureSize {
		return SignatureAsset{}, fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidSignature, info.Size(), MaxSignatureSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return SignatureAsset{}, fmt.Errorf("reading signature: %w", err)
	}
	return NewSignatureAsset(data)
}

func formatFromDecoder(name string) (ImageFormat, bool) {
	switch name {
	case "png":
		return ImagePNG, true
	case "jpeg":
		return ImageJPEG, true
	default:
		return "", false
	}
}
