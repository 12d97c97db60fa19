package handlers

import (
	"net/http"
	"strconv"

	"go-barcode-generator/internal/models"
	"go-barcode-generator/internal/repository"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	store repository.HistoryStore
}

func NewHistoryHandler(store repository.HistoryStore) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// Recent lists the newest generation records, ?limit= defaults to 50.
// ?project= narrows the list to one reagent project.
func (h *HistoryHandler) Recent(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "FEATURE_DISABLED",
			"message": "Generation history is disabled",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	var (
		records []models.GenerationRecord
		err     error
	)
	if project := c.Query("project"); project != "" {
		records, err = h.store.ByProject(project, limit)
	} else {
		records, err = h.store.Recent(limit)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
