// Package scan reads rendered symbols back with a software decoder so a
// label can be checked before it is printed.
package scan

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

var (
	ErrNoCodeFound   = errors.New("no barcode found")
	ErrMismatch      = errors.New("decoded content does not match")
	ErrNotVerifiable = errors.New("format cannot be verified")
)

// DecodeRequest is a verify request carrying a PNG image.
type DecodeRequest struct {
	ImageData string   `json:"imageData" binding:"required"` // base64 PNG, data URL prefix allowed
	Expected  string   `json:"expected,omitempty"`
	Formats   []string `json:"formats,omitempty"`
}

// DecodeResponse reports a decode attempt.
type DecodeResponse struct {
	Success        bool    `json:"success"`
	Result         *Result `json:"result,omitempty"`
	Matches        *bool   `json:"matches,omitempty"`
	Error          string  `json:"error,omitempty"`
	ProcessingTime int64   `json:"processingTime"` // milliseconds
}

// Result is a decoded symbol.
type Result struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

// Verifier decodes every symbology the generator emits except PDF417, which
// gozxing v0.1.1 cannot read. gozxing readers keep per-decode state, so each
// call builds its own. Formats in pure get a second attempt with PURE_BARCODE
// when detection fails.
type Verifier struct {
	readers map[string]func() gozxing.Reader
	order   []string
	pure    map[string]bool
}

func NewVerifier() *Verifier {
	return &Verifier{
		readers: map[string]func() gozxing.Reader{
			"Code128":    oned.NewCode128Reader,
			"Code39":     oned.NewCode39Reader,
			"EAN13":      oned.NewEAN13Reader,
			"QRCode":     qrcode.NewQRCodeReader,
			"DataMatrix": func() gozxing.Reader { return datamatrix.NewDataMatrixReader() },
			"Aztec":      func() gozxing.Reader { return aztec.NewAztecReader() },
		},
		order: []string{"QRCode", "DataMatrix", "Aztec", "Code128", "Code39", "EAN13"},
		pure:  map[string]bool{"DataMatrix": true, "Aztec": true},
	}
}

// CanVerify reports whether format has a reader.
func (v *Verifier) CanVerify(format string) bool {
	_, ok := v.lookup(format)
	return ok
}

// Decode tries the readers for formats (all readers when empty) on img.
func (v *Verifier) Decode(img image.Image, formats ...string) (*Result, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to create bitmap: %w", err)
	}

	names := v.order
	if len(formats) > 0 {
		names = nil
		for _, f := range formats {
			if name, ok := v.lookup(f); ok {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotVerifiable, strings.Join(formats, ", "))
		}
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	pureHints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER:   true,
		gozxing.DecodeHintType_PURE_BARCODE: true,
	}
	for _, name := range names {
		if res, err := v.readers[name]().Decode(bmp, hints); err == nil && res != nil {
			return &Result{Text: res.GetText(), Format: name}, nil
		}
		if !v.pure[name] {
			continue
		}
		if res, err := v.readers[name]().Decode(bmp, pureHints); err == nil && res != nil {
			return &Result{Text: res.GetText(), Format: name}, nil
		}
	}
	return nil, ErrNoCodeFound
}

// Verify decodes img as format and compares the text with expected.
func (v *Verifier) Verify(img image.Image, format, expected string) error {
	res, err := v.Decode(img, format)
	if err != nil {
		return err
	}
	if res.Text != expected {
		return fmt.Errorf("%w: got %q, want %q", ErrMismatch, res.Text, expected)
	}
	return nil
}

// DecodeRequest processes a verify request.
func (v *Verifier) DecodeRequest(req *DecodeRequest) *DecodeResponse {
	start := time.Now()
	response := &DecodeResponse{}

	img, err := decodeImageData(req.ImageData)
	if err != nil {
		response.Error = fmt.Sprintf("Failed to decode image: %v", err)
		response.ProcessingTime = time.Since(start).Milliseconds()
		return response
	}

	res, err := v.Decode(img, req.Formats...)
	response.ProcessingTime = time.Since(start).Milliseconds()
	if err != nil {
		response.Error = err.Error()
		return response
	}

	response.Success = true
	response.Result = res
	if req.Expected != "" {
		matches := res.Text == req.Expected
		response.Matches = &matches
	}
	return response
}

func (v *Verifier) lookup(format string) (string, bool) {
	for name := range v.readers {
		if strings.EqualFold(name, format) {
			return name, true
		}
	}
	return "", false
}

func decodeImageData(imageData string) (image.Image, error) {
	if i := strings.Index(imageData, ";base64,"); strings.HasPrefix(imageData, "data:") && i >= 0 {
		imageData = imageData[i+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return nil, fmt.Errorf("base64 decode failed: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("PNG decode failed: %w", err)
	}
	return img, nil
}
