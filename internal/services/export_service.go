package services

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/klauspost/compress/zip"

	"go-barcode-generator/internal/imaging"
)

// Label sheet layout, in millimetres.
const (
	sheetMargin    = 10.0
	sheetGap       = 6.0
	sheetCaptionH  = 5.0
	sheetFontSize  = 8.0
	mmPerCM        = 10.0
	pdfImageFormat = "PNG"
)

// ExportService writes rendered labels to disk, zip archives or PDF sheets.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// FileName is the name a batch item gets on export: a two-digit 1-based
// position followed by the label with spaces and slashes replaced.
func FileName(index int, label string) string {
	safe := strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(label)
	return fmt.Sprintf("%02d_%s.png", index+1, safe)
}

// AdhocFileName is the default name for a single exported render.
func AdhocFileName(now time.Time) string {
	return "barcode_" + now.Format("20060102_150405") + ".png"
}

// WriteDir writes every item as a 300 DPI PNG into dir and returns the
// written paths in batch order.
func (s *ExportService) WriteDir(items []LabeledBarcode, dir string) ([]string, error) {
	paths := make([]string, 0, len(items))
	for i, item := range items {
		path := filepath.Join(dir, FileName(i, item.Label))
		if err := imaging.WritePNG300DPI(path, item.Symbol.Image); err != nil {
			return paths, fmt.Errorf("failed to export %s: %w", item.Label, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteZip streams every item as a 300 DPI PNG entry of a zip archive.
func (s *ExportService) WriteZip(items []LabeledBarcode, w io.Writer) error {
	zw := zip.NewWriter(w)
	for i, item := range items {
		entry, err := zw.Create(FileName(i, item.Label))
		if err != nil {
			return fmt.Errorf("failed to create zip entry: %w", err)
		}
		if err := imaging.EncodePNG300DPI(entry, item.Symbol.Image); err != nil {
			return fmt.Errorf("failed to export %s: %w", item.Label, err)
		}
	}
	return zw.Close()
}

// WritePDF lays items out on A4 pages, each image placed at the physical
// size implied by its pixel dimensions at 300 DPI, with its label as caption.
func (s *ExportService) WritePDF(items []LabeledBarcode, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(sheetMargin, sheetMargin, sheetMargin)
	pdf.SetAutoPageBreak(false, sheetMargin)
	pdf.SetFont("Helvetica", "", sheetFontSize)

	pageW, pageH := pdf.GetPageSize()
	x, y, rowH := sheetMargin, sheetMargin, 0.0
	pdf.AddPage()

	for i, item := range items {
		imgW := pixelsToMM(item.Symbol.Width)
		imgH := pixelsToMM(item.Symbol.Height)
		cellH := imgH + sheetCaptionH

		if x+imgW > pageW-sheetMargin && x > sheetMargin {
			x = sheetMargin
			y += rowH + sheetGap
			rowH = 0
		}
		if y+cellH > pageH-sheetMargin && y > sheetMargin {
			pdf.AddPage()
			x, y, rowH = sheetMargin, sheetMargin, 0
		}

		data, err := item.Symbol.PNG()
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", item.Label, err)
		}
		name := fmt.Sprintf("label-%d", i)
		opts := gofpdf.ImageOptions{ImageType: pdfImageFormat}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		pdf.ImageOptions(name, x, y, imgW, imgH, false, opts, 0, "")

		pdf.SetXY(x, y+imgH+1)
		pdf.CellFormat(imgW, sheetCaptionH-1, pdf.UnicodeTranslatorFromDescriptor("")(item.Label), "", 0, "L", false, 0, "")

		x += imgW + sheetGap
		if cellH > rowH {
			rowH = cellH
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF: %w", err)
	}
	return pdf.Output(w)
}

func pixelsToMM(px int) float64 {
	return float64(px) / imaging.DPI * 2.54 * mmPerCM
}
