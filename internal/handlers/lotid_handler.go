package handlers

import (
	"net/http"
	"strconv"

	"go-barcode-generator/internal/lotid"
	"go-barcode-generator/internal/services"

	"github.com/gin-gonic/gin"
)

type LotIDHandler struct {
	barcodeService *services.BarcodeService
}

func NewLotIDHandler(barcodeService *services.BarcodeService) *LotIDHandler {
	return &LotIDHandler{barcodeService: barcodeService}
}

// Encode turns ?id=&lot= (0..255 each) into a token.
func (h *LotIDHandler) Encode(c *gin.Context) {
	id, ok := byteParam(c, "id")
	if !ok {
		return
	}
	lot, ok := byteParam(c, "lot")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    id,
		"lot":   lot,
		"token": lotid.Encode(id, lot).String(),
	})
}

// Decode turns ?token= back into id and lot.
func (h *LotIDHandler) Decode(c *gin.Context) {
	token := c.Query("token")
	id, lot, err := lotid.Decode(token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"id":    id,
		"lot":   lot,
	})
}

// PNG renders a valid ?token= as a DataMatrix preview. The token travels in
// the query because '/' is a token symbol.
func (h *LotIDHandler) PNG(c *gin.Context) {
	token := c.Query("token")
	if _, _, err := lotid.Decode(token); err != nil {
		respondError(c, err)
		return
	}

	sym, err := h.barcodeService.RenderDataMatrix(token)
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := sym.PNG()
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

func byteParam(c *gin.Context, name string) (byte, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 8)
	if err != nil {
		badRequest(c, "INVALID_PARAMETER", name+" must be an integer between 0 and 255")
		return 0, false
	}
	return byte(v), true
}
