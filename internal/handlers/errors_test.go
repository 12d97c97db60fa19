package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-barcode-generator/internal/logger"
	"go-barcode-generator/internal/lotid"
	"go-barcode-generator/internal/models"
	"go-barcode-generator/internal/scan"
	"go-barcode-generator/internal/services"
	"go-barcode-generator/internal/symbology"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("decode: %w", lotid.ErrInvalidSymbol), http.StatusBadRequest, "INVALID_TOKEN"},
		{lotid.ErrInvalidLength, http.StatusBadRequest, "INVALID_TOKEN"},
		{fmt.Errorf("%w: format index 9", services.ErrInvalidIndex), http.StatusBadRequest, "INVALID_OPTION"},
		{fmt.Errorf("%w: 1e+12x2 cm", services.ErrInvalidSize), http.StatusBadRequest, "INVALID_OPTION"},
		{fmt.Errorf("%w: %w", services.ErrRenderFailed, symbology.ErrEmptyContent), http.StatusUnprocessableEntity, "RENDER_FAILED"},
		{scan.ErrNoCodeFound, http.StatusUnprocessableEntity, "NO_CODE_FOUND"},
		{scan.ErrNotVerifiable, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
		{errors.New("disk full"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		status, code := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

type failingStore struct{ calls int }

func (f *failingStore) Record(...*models.GenerationRecord) error {
	f.calls++
	return errors.New("connection refused")
}

func (f *failingStore) Recent(int) ([]models.GenerationRecord, error) { return nil, nil }

func (f *failingStore) ByProject(string, int) ([]models.GenerationRecord, error) { return nil, nil }

func TestHistoryRecorderSwallowsErrors(t *testing.T) {
	store := &failingStore{}
	h := historyRecorder{store: store, log: logger.NewWithWriter(logger.LoggerConfig{}, io.Discard)}

	h.record(&models.GenerationRecord{Format: "QRCode"})
	h.record()
	assert.Equal(t, 1, store.calls)

	historyRecorder{}.record(&models.GenerationRecord{})
}
