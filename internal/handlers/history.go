package handlers

import (
	"go-barcode-generator/internal/logger"
	"go-barcode-generator/internal/models"
	"go-barcode-generator/internal/repository"
)

// historyRecorder writes to an optional store. History failures are logged
// and never fail the request.
type historyRecorder struct {
	store repository.HistoryStore
	log   *logger.StructuredLogger
}

func (h historyRecorder) record(records ...*models.GenerationRecord) {
	if h.store == nil || len(records) == 0 {
		return
	}
	if err := h.store.Record(records...); err != nil {
		h.log.Error("Failed to record generation history", err, map[string]interface{}{
			"records": len(records),
		})
	}
}
