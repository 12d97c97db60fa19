package services

import (
	"errors"
	"fmt"
	"image"

	"go-barcode-generator/internal/imaging"
	"go-barcode-generator/internal/symbology"
)

// Option tables indexed by the selectors a caller stores.
var (
	Formats = []symbology.Format{
		symbology.CompactPDF417,
		symbology.PDF417,
		symbology.QRCode,
		symbology.DataMatrix,
		symbology.Code128,
		symbology.Code39,
		symbology.Aztec,
		symbology.EAN13,
	}
	Scales    = []int{1, 2, 3, 4, 5}
	Rotations = []int{0, 90, 180, 270}
)

const (
	defaultFormatIndex = 0
	defaultScale       = 2
	defaultRotation    = 0
)

// MaxTargetPixels bounds each side of a resampled raster, about 84.7 cm at
// 300 DPI.
const MaxTargetPixels = 10000

var (
	ErrInvalidIndex = errors.New("option index out of range")
	ErrInvalidSize  = errors.New("physical size out of range")
	ErrRenderFailed = errors.New("barcode rendering failed")
)

// RenderConfig describes one symbol to render. Indices refer to Formats,
// Scales and Rotations; ColumnsIndex is zero-based. A physical size is only
// applied when both WidthCM and HeightCM are positive.
type RenderConfig struct {
	Content      string  `json:"content"`
	FormatIndex  int     `json:"format_index"`
	ScaleIndex   int     `json:"scale_index"`
	RotateIndex  int     `json:"rotate_index"`
	ColumnsIndex int     `json:"columns_index"`
	ECLevelIndex int     `json:"eclevel_index"`
	WidthCM      float64 `json:"width_cm"`
	HeightCM     float64 `json:"height_cm"`
}

// RenderedSymbol is the output of a render. The caller owns Image.
type RenderedSymbol struct {
	Image      *image.Gray
	Width      int
	Height     int
	FormatName string
}

// PNG encodes the symbol with 300 DPI metadata.
func (r *RenderedSymbol) PNG() ([]byte, error) {
	return imaging.PNG300DPI(r.Image)
}

// BarcodeService turns render configs into rasters through a symbology
// engine. It holds no per-call state.
type BarcodeService struct {
	engine symbology.Engine
	strict bool
}

func NewBarcodeService(engine symbology.Engine) *BarcodeService {
	if engine == nil {
		engine = symbology.NewDefaultEngine()
	}
	return &BarcodeService{engine: engine}
}

// SetStrictIndices makes out-of-range selectors an error instead of
// falling back to the defaults.
func (s *BarcodeService) SetStrictIndices(strict bool) {
	s.strict = strict
}

// Render resolves cfg's selectors, delegates symbol layout to the engine and
// resamples the result to the requested physical size.
func (s *BarcodeService) Render(cfg RenderConfig) (*RenderedSymbol, error) {
	format, err := s.resolve(cfg.FormatIndex, len(Formats), defaultFormatIndex, "format")
	if err != nil {
		return nil, err
	}
	scaleIdx, err := s.resolve(cfg.ScaleIndex, len(Scales), -1, "scale")
	if err != nil {
		return nil, err
	}
	rotateIdx, err := s.resolve(cfg.RotateIndex, len(Rotations), -1, "rotate")
	if err != nil {
		return nil, err
	}

	f := Formats[format]
	scale := defaultScale
	if scaleIdx >= 0 {
		scale = Scales[scaleIdx]
	}
	rotation := defaultRotation
	if rotateIdx >= 0 {
		rotation = Rotations[rotateIdx]
	}

	targetW, targetH, err := TargetPixels(cfg.WidthCM, cfg.HeightCM)
	if err != nil {
		return nil, err
	}

	opts := symbology.Options{
		Columns: cfg.ColumnsIndex + 1,
		ECLevel: cfg.ECLevelIndex,
	}

	sym, err := s.engine.CreateSymbol(f, opts, cfg.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	img, err := s.engine.Rasterize(sym, symbology.RasterOptions{
		Scale:      scale,
		Rotation:   rotation,
		QuietZones: true,
		ShowText:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	if targetW > 0 {
		img = imaging.Resize(img, targetW, targetH)
	}

	return &RenderedSymbol{
		Image:      img,
		Width:      img.Bounds().Dx(),
		Height:     img.Bounds().Dy(),
		FormatName: f.String(),
	}, nil
}

// TargetPixels converts a physical size to pixels at 300 DPI. It returns
// zero sizes, meaning the raw raster is kept, when either dimension is not
// positive or rounds to zero pixels. A side above MaxTargetPixels is
// ErrInvalidSize.
func TargetPixels(widthCM, heightCM float64) (w, h int, err error) {
	if !(widthCM > 0) || !(heightCM > 0) {
		return 0, 0, nil
	}
	for _, cm := range []float64{widthCM, heightCM} {
		if imaging.CMToDots(cm) > MaxTargetPixels {
			return 0, 0, fmt.Errorf("%w: %gx%g cm exceeds %d px per side", ErrInvalidSize, widthCM, heightCM, MaxTargetPixels)
		}
	}
	w, h = imaging.CMToPixels(widthCM), imaging.CMToPixels(heightCM)
	if w <= 0 || h <= 0 {
		return 0, 0, nil
	}
	return w, h, nil
}

// resolve maps an index into a table of size n. Out-of-range indices fall
// back to fallback unless the service is strict.
func (s *BarcodeService) resolve(index, n, fallback int, name string) (int, error) {
	if index >= 0 && index < n {
		return index, nil
	}
	if s.strict {
		return 0, fmt.Errorf("%w: %s index %d (0-%d)", ErrInvalidIndex, name, index, n-1)
	}
	return fallback, nil
}

// FormatNames lists the display names of Formats in selector order.
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = f.String()
	}
	return names
}

// FormatIndex returns the selector for a format display name.
func FormatIndex(name string) (int, bool) {
	f, ok := symbology.ParseFormat(name)
	if !ok {
		return 0, false
	}
	for i, candidate := range Formats {
		if candidate == f {
			return i, true
		}
	}
	return 0, false
}

const tokenPreviewScale = 6

// RenderDataMatrix renders content as a DataMatrix symbol at a fixed preview
// scale, the way lot tokens are shown.
func (s *BarcodeService) RenderDataMatrix(content string) (*RenderedSymbol, error) {
	sym, err := s.engine.CreateSymbol(symbology.DataMatrix, symbology.Options{}, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	img, err := s.engine.Rasterize(sym, symbology.RasterOptions{
		Scale:      tokenPreviewScale,
		QuietZones: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return &RenderedSymbol{
		Image:      img,
		Width:      img.Bounds().Dx(),
		Height:     img.Bounds().Dy(),
		FormatName: symbology.DataMatrix.String(),
	}, nil
}
