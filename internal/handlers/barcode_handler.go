package handlers

import (
	"net/http"
	"strconv"

	"go-barcode-generator/internal/logger"
	"go-barcode-generator/internal/models"
	"go-barcode-generator/internal/repository"
	"go-barcode-generator/internal/scan"
	"go-barcode-generator/internal/services"

	"github.com/gin-gonic/gin"
)

type BarcodeHandler struct {
	barcodeService *services.BarcodeService
	verifier       *scan.Verifier
	history        historyRecorder
	log            *logger.StructuredLogger
}

func NewBarcodeHandler(barcodeService *services.BarcodeService, verifier *scan.Verifier, history repository.HistoryStore, log *logger.StructuredLogger) *BarcodeHandler {
	return &BarcodeHandler{
		barcodeService: barcodeService,
		verifier:       verifier,
		history:        historyRecorder{store: history, log: log},
		log:            log,
	}
}

// Formats lists the selectable formats in index order.
func (h *BarcodeHandler) Formats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":   services.FormatNames(),
		"scales":    services.Scales,
		"rotations": services.Rotations,
	})
}

// Render renders a RenderConfig body to a 300 DPI PNG.
func (h *BarcodeHandler) Render(c *gin.Context) {
	var cfg services.RenderConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	sym, err := h.barcodeService.Render(cfg)
	if err != nil {
		h.log.WithRequestContext(c).Warn("Render failed", map[string]interface{}{
			"format_index": cfg.FormatIndex,
			"error":        err.Error(),
		})
		respondError(c, err)
		return
	}

	data, err := sym.PNG()
	if err != nil {
		respondError(c, err)
		return
	}

	h.history.record(&models.GenerationRecord{
		Source:  "api",
		Format:  sym.FormatName,
		Content: cfg.Content,
		Width:   sym.Width,
		Height:  sym.Height,
	})

	c.Header("X-Barcode-Format", sym.FormatName)
	c.Header("X-Barcode-Width", strconv.Itoa(sym.Width))
	c.Header("X-Barcode-Height", strconv.Itoa(sym.Height))
	c.Data(http.StatusOK, "image/png", data)
}

// Verify decodes an uploaded PNG and optionally compares it to the expected
// content.
func (h *BarcodeHandler) Verify(c *gin.Context) {
	var req scan.DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	response := h.verifier.DecodeRequest(&req)
	if response.Success {
		c.JSON(http.StatusOK, response)
	} else {
		// Valid request, but nothing readable in the image
		c.JSON(http.StatusUnprocessableEntity, response)
	}
}
