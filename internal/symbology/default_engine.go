package symbology

import (
	"fmt"
	"image"
	"image/color"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/aztec"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/datamatrix"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/pdf417"
	"github.com/skip2/go-qrcode"

	"go-barcode-generator/internal/imaging"
)

const (
	// Bar height, in module rows, given to linear symbols before scaling.
	linearBarHeight = 40

	pdf417CodewordWidth = 17
	pdf417MaxColumns    = 30
	pdf417MaxSecurity   = 8

	aztecDefaultECCPercent = 33
)

var quietZones = map[Format]int{
	CompactPDF417: 2,
	PDF417:        2,
	QRCode:        4,
	DataMatrix:    2,
	Code128:       10,
	Code39:        10,
	Aztec:         2,
	EAN13:         9,
}

var qrRecoveryLevels = []qrcode.RecoveryLevel{
	qrcode.Low,
	qrcode.Medium,
	qrcode.High,
	qrcode.Highest,
}

// DefaultEngine lays symbols out with boombuler/barcode, and QR codes with
// skip2/go-qrcode. It keeps no state.
type DefaultEngine struct{}

func NewDefaultEngine() *DefaultEngine {
	return &DefaultEngine{}
}

// CreateSymbol lays content out as format. PDF417 column counts are checked
// for range but the encoder picks the final row/column split itself.
func (e *DefaultEngine) CreateSymbol(format Format, opts Options, content string) (*Symbol, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	var (
		modules *image.Gray
		err     error
	)
	switch format {
	case PDF417, CompactPDF417:
		modules, err = encodePDF417(content, opts, format == CompactPDF417)
	case QRCode:
		modules, err = encodeQR(content, opts)
	case DataMatrix:
		modules, err = encode2D(datamatrix.Encode(content))
	case Aztec:
		modules, err = encodeAztec(content, opts)
	case Code128:
		modules, err = encodeLinear(code128.Encode(content))
	case Code39:
		modules, err = encodeLinear(code39.Encode(content, false, true))
	case EAN13:
		modules, err = encodeLinear(ean.Encode(content))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int(format))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	return &Symbol{
		Format:    format,
		Content:   content,
		Modules:   modules,
		QuietZone: quietZones[format],
	}, nil
}

// Rasterize pads, scales and rotates a symbol. Human-readable text is not
// supported by this engine.
func (e *DefaultEngine) Rasterize(sym *Symbol, opts RasterOptions) (*image.Gray, error) {
	if sym == nil || sym.Modules == nil {
		return nil, fmt.Errorf("%w: nil symbol", ErrInvalidOption)
	}
	if opts.Scale < 1 {
		return nil, fmt.Errorf("%w: scale %d", ErrInvalidOption, opts.Scale)
	}
	if opts.ShowText {
		return nil, fmt.Errorf("%w: human-readable text is not supported", ErrInvalidOption)
	}

	img := sym.Modules
	if opts.QuietZones {
		if sym.Format.Linear() {
			img = imaging.Pad(img, sym.QuietZone, 0)
		} else {
			img = imaging.Pad(img, sym.QuietZone, sym.QuietZone)
		}
	}
	img = imaging.ScaleInt(img, opts.Scale)

	rotated, err := imaging.Rotate(img, opts.Rotation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return rotated, nil
}

func encodePDF417(content string, opts Options, compact bool) (*image.Gray, error) {
	if opts.Columns < 1 || opts.Columns > pdf417MaxColumns {
		return nil, fmt.Errorf("%w: columns %d", ErrInvalidOption, opts.Columns)
	}
	if opts.ECLevel < 0 || opts.ECLevel > pdf417MaxSecurity {
		return nil, fmt.Errorf("%w: eclevel %d", ErrInvalidOption, opts.ECLevel)
	}

	bc, err := pdf417.Encode(content, byte(opts.ECLevel))
	if err != nil {
		return nil, err
	}

	modules := imaging.ToGray(bc)
	if compact {
		return truncatePDF417(modules)
	}
	return modules, nil
}

// truncatePDF417 turns a full PDF417 symbol into its compact form: the right
// row indicator and the stop pattern are replaced by a single bar.
func truncatePDF417(full *image.Gray) (*image.Gray, error) {
	w, h := full.Bounds().Dx(), full.Bounds().Dy()
	// start + left indicator + data columns + right indicator + 18-module stop
	if (w-1)%pdf417CodewordWidth != 0 || w < 5*pdf417CodewordWidth+1 {
		return nil, fmt.Errorf("unexpected PDF417 width %d", w)
	}

	keep := w - 2*pdf417CodewordWidth - 1
	compact := image.NewGray(image.Rect(0, 0, keep+1, h))
	for y := 0; y < h; y++ {
		copy(compact.Pix[y*compact.Stride:y*compact.Stride+keep], full.Pix[y*full.Stride:y*full.Stride+keep])
		compact.SetGray(keep, y, color.Gray{Y: 0})
	}
	return compact, nil
}

func encodeQR(content string, opts Options) (*image.Gray, error) {
	if opts.ECLevel < 0 || opts.ECLevel >= len(qrRecoveryLevels) {
		return nil, fmt.Errorf("%w: eclevel %d", ErrInvalidOption, opts.ECLevel)
	}

	q, err := qrcode.New(content, qrRecoveryLevels[opts.ECLevel])
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true

	bitmap := q.Bitmap()
	modules := image.NewGray(image.Rect(0, 0, len(bitmap), len(bitmap)))
	for y, row := range bitmap {
		for x, set := range row {
			if set {
				modules.SetGray(x, y, color.Gray{Y: 0})
			} else {
				modules.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return modules, nil
}

func encodeAztec(content string, opts Options) (*image.Gray, error) {
	percent := opts.ECLevel
	if percent <= 0 {
		percent = aztecDefaultECCPercent
	}
	if percent > 90 {
		return nil, fmt.Errorf("%w: eclevel %d", ErrInvalidOption, opts.ECLevel)
	}
	return encode2D(aztec.Encode([]byte(content), percent, 0))
}

func encode2D(bc barcode.Barcode, err error) (*image.Gray, error) {
	if err != nil {
		return nil, err
	}
	return imaging.ToGray(bc), nil
}

// encodeLinear stretches a one-row symbol to linearBarHeight rows.
func encodeLinear(bc barcode.BarcodeIntCS, err error) (*image.Gray, error) {
	if err != nil {
		return nil, err
	}
	tall, err := barcode.Scale(bc, bc.Bounds().Dx(), linearBarHeight)
	if err != nil {
		return nil, err
	}
	return imaging.ToGray(tall), nil
}
