// Package symbology is the boundary to the barcode symbol generator. The rest
// of the module only sees CreateSymbol and Rasterize; any library that can
// lay out modules can sit behind Engine.
package symbology

import (
	"errors"
	"image"
	"strings"
)

// Format is a barcode symbology.
type Format int

const (
	CompactPDF417 Format = iota
	PDF417
	QRCode
	DataMatrix
	Code128
	Code39
	Aztec
	EAN13
)

var formatNames = map[Format]string{
	CompactPDF417: "CompactPDF417",
	PDF417:        "PDF417",
	QRCode:        "QRCode",
	DataMatrix:    "DataMatrix",
	Code128:       "Code128",
	Code39:        "Code39",
	Aztec:         "Aztec",
	EAN13:         "EAN13",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

// Linear reports whether f is a one-dimensional symbology.
func (f Format) Linear() bool {
	switch f {
	case Code128, Code39, EAN13:
		return true
	default:
		return false
	}
}

// ParseFormat resolves a display name, ignoring case.
func ParseFormat(name string) (Format, bool) {
	for f, n := range formatNames {
		if strings.EqualFold(n, name) {
			return f, true
		}
	}
	return 0, false
}

// Options carries family-specific symbol parameters. Columns applies to the
// PDF417 family; ECLevel means security level for PDF417, recovery level for
// QR codes and minimum error-correction percent for Aztec.
type Options struct {
	Columns int
	ECLevel int
}

// RasterOptions controls how a symbol becomes pixels.
type RasterOptions struct {
	Scale      int
	Rotation   int // degrees clockwise: 0, 90, 180 or 270
	QuietZones bool
	ShowText   bool
}

// Symbol is a laid-out barcode, one pixel per module.
type Symbol struct {
	Format  Format
	Content string
	Modules *image.Gray
	// QuietZone is the margin, in modules, the symbology asks for.
	QuietZone int
}

// Engine generates symbols. Implementations must be safe for concurrent
// independent calls.
type Engine interface {
	CreateSymbol(format Format, opts Options, content string) (*Symbol, error)
	Rasterize(sym *Symbol, opts RasterOptions) (*image.Gray, error)
}

var (
	ErrUnsupportedFormat = errors.New("unsupported barcode format")
	ErrInvalidOption     = errors.New("invalid barcode option")
	ErrEmptyContent      = errors.New("barcode content is empty")
)
