package services

import (
	"fmt"

	"go-barcode-generator/internal/reagent"
)

// Fixed render profiles for reagent labels.
var (
	// LongProfile: PDF417, x2, 0 degrees, 4 columns, EC level 2, 4.0 x 2.0 cm.
	LongProfile = RenderConfig{
		FormatIndex:  1,
		ScaleIndex:   1,
		RotateIndex:  0,
		ColumnsIndex: 3,
		ECLevelIndex: 2,
		WidthCM:      4.0,
		HeightCM:     2.0,
	}
	// ShortProfile: CompactPDF417, x2, 90 degrees, 2 columns, EC level 6, 7.4 x 1.8 cm.
	ShortProfile = RenderConfig{
		FormatIndex:  0,
		ScaleIndex:   1,
		RotateIndex:  1,
		ColumnsIndex: 1,
		ECLevelIndex: 6,
		WidthCM:      7.4,
		HeightCM:     1.8,
	}
)

// Kind tells long and short labels apart.
type Kind string

const (
	KindLong  Kind = "long"
	KindShort Kind = "short"
)

// LabeledBarcode is one rendered label of a project batch.
type LabeledBarcode struct {
	Label   string
	Reagent string
	Kind    Kind
	Content string
	Symbol  *RenderedSymbol
}

// GenerateRequest carries the operator input for one project batch.
// SerialNos maps by index to the project's reagents; missing entries are
// treated as empty.
type GenerateRequest struct {
	SerialNos    []string
	ControlNo    string
	Expiry       string // YYYY-MM-DD
	BitsOverride string
}

// ProjectService builds and renders all labels of a reagent project.
type ProjectService struct {
	barcodes *BarcodeService
}

func NewProjectService(barcodes *BarcodeService) *ProjectService {
	return &ProjectService{barcodes: barcodes}
}

// GenerateProjectBarcodes renders, per reagent in catalog order, the long
// label (if the reagent has one) followed by the short label. The first
// render failure aborts the batch and no labels are returned.
func (s *ProjectService) GenerateProjectBarcodes(project *reagent.Project, req GenerateRequest) ([]LabeledBarcode, error) {
	expiry := reagent.EncodeExpiry(req.Expiry, project.ExpiryFormat)

	var items []LabeledBarcode
	for i := range project.Reagents {
		r := &project.Reagents[i]
		sn := ""
		if i < len(req.SerialNos) {
			sn = req.SerialNos[i]
		}

		if r.GeneratesLong {
			content := reagent.BuildLong(sn, r, req.ControlNo, project.ControlNoSuffix, expiry, req.BitsOverride)
			item, err := s.render(r, KindLong, content, LongProfile)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}

		if r.GeneratesShort {
			content := reagent.BuildShort(sn, r, req.ControlNo, project.ControlNoSuffix)
			item, err := s.render(r, KindShort, content, ShortProfile)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}

	return items, nil
}

func (s *ProjectService) render(r *reagent.Reagent, kind Kind, content string, profile RenderConfig) (LabeledBarcode, error) {
	cfg := profile
	cfg.Content = content

	sym, err := s.barcodes.Render(cfg)
	if err != nil {
		return LabeledBarcode{}, fmt.Errorf("failed to render %s %s label: %w", r.Name, kind, err)
	}

	return LabeledBarcode{
		Label:   r.Name + " " + string(kind),
		Reagent: r.Name,
		Kind:    kind,
		Content: content,
		Symbol:  sym,
	}, nil
}
