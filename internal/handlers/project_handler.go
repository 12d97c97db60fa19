package handlers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"go-barcode-generator/internal/logger"
	"go-barcode-generator/internal/models"
	"go-barcode-generator/internal/reagent"
	"go-barcode-generator/internal/repository"
	"go-barcode-generator/internal/services"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	catalog        *reagent.Catalog
	projectService *services.ProjectService
	exportService  *services.ExportService
	history        historyRecorder
	log            *logger.StructuredLogger
	now            func() time.Time
}

func NewProjectHandler(catalog *reagent.Catalog, projectService *services.ProjectService, exportService *services.ExportService, history repository.HistoryStore, log *logger.StructuredLogger) *ProjectHandler {
	return &ProjectHandler{
		catalog:        catalog,
		projectService: projectService,
		exportService:  exportService,
		history:        historyRecorder{store: history, log: log},
		log:            log,
		now:            time.Now,
	}
}

// GenerateProjectRequest is the operator input for a batch. Empty fields
// take the project defaults.
type GenerateProjectRequest struct {
	SerialNos    []string `json:"serial_numbers"`
	ControlNo    string   `json:"control_no"`
	Expiry       string   `json:"expiry"`
	BitsOverride string   `json:"bits_override"`
}

// GeneratedItem is one label in a JSON batch response.
type GeneratedItem struct {
	Label   string `json:"label"`
	Reagent string `json:"reagent"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	PNG     string `json:"png"` // base64
}

func (h *ProjectHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projects": h.catalog.Names()})
}

func (h *ProjectHandler) Defaults(c *gin.Context) {
	project, ok := h.findProject(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, reagent.ProjectDefaults(project, reagent.DefaultExpiry(h.now())))
}

// Generate renders the whole batch. ?format=zip or ?format=pdf returns an
// archive or a label sheet instead of JSON.
func (h *ProjectHandler) Generate(c *gin.Context) {
	project, ok := h.findProject(c)
	if !ok {
		return
	}

	var body GenerateProjectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "INVALID_REQUEST", err.Error())
			return
		}
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "zip" && format != "pdf" {
		badRequest(c, "INVALID_FORMAT", "format must be json, zip or pdf")
		return
	}

	req := h.fillDefaults(project, body)
	items, err := h.projectService.GenerateProjectBarcodes(project, req)
	if err != nil {
		h.log.WithRequestContext(c).Error("Project generation failed", err, map[string]interface{}{
			"project": project.Name,
		})
		respondError(c, err)
		return
	}

	h.log.LogBusinessEvent("Project batch generated", "project", "generate", map[string]interface{}{
		"project": project.Name,
		"labels":  len(items),
		"format":  format,
	})
	h.recordBatch(project.Name, items)

	switch format {
	case "zip":
		var buf bytes.Buffer
		if err := h.exportService.WriteZip(items, &buf); err != nil {
			respondError(c, err)
			return
		}
		h.sendArchive(c, project.Name, format, "application/zip", buf.Bytes())
	case "pdf":
		var buf bytes.Buffer
		if err := h.exportService.WritePDF(items, &buf); err != nil {
			respondError(c, err)
			return
		}
		h.sendArchive(c, project.Name, format, "application/pdf", buf.Bytes())
	default:
		out := make([]GeneratedItem, 0, len(items))
		for _, item := range items {
			data, err := item.Symbol.PNG()
			if err != nil {
				respondError(c, err)
				return
			}
			out = append(out, GeneratedItem{
				Label:   item.Label,
				Reagent: item.Reagent,
				Kind:    string(item.Kind),
				Content: item.Content,
				Width:   item.Symbol.Width,
				Height:  item.Symbol.Height,
				PNG:     base64.StdEncoding.EncodeToString(data),
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"project": project.Name,
			"items":   out,
		})
	}
}

func (h *ProjectHandler) findProject(c *gin.Context) (*reagent.Project, bool) {
	name := c.Param("name")
	project, ok := h.catalog.Find(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "PROJECT_NOT_FOUND",
			"message": "Unknown project: " + name,
		})
		return nil, false
	}
	return project, true
}

func (h *ProjectHandler) fillDefaults(project *reagent.Project, body GenerateProjectRequest) services.GenerateRequest {
	defaults := reagent.ProjectDefaults(project, reagent.DefaultExpiry(h.now()))

	req := services.GenerateRequest{
		SerialNos:    body.SerialNos,
		ControlNo:    body.ControlNo,
		Expiry:       body.Expiry,
		BitsOverride: body.BitsOverride,
	}
	if req.SerialNos == nil {
		req.SerialNos = defaults.SerialNos
	}
	if req.ControlNo == "" {
		req.ControlNo = defaults.ControlNo
	}
	if req.Expiry == "" {
		req.Expiry = defaults.Expiry
	}
	return req
}

func (h *ProjectHandler) recordBatch(project string, items []services.LabeledBarcode) {
	records := make([]*models.GenerationRecord, 0, len(items))
	for _, item := range items {
		records = append(records, &models.GenerationRecord{
			Source:  "api",
			Project: project,
			Label:   item.Label,
			Format:  item.Symbol.FormatName,
			Content: item.Content,
			Width:   item.Symbol.Width,
			Height:  item.Symbol.Height,
		})
	}
	h.history.record(records...)
}

func (h *ProjectHandler) sendArchive(c *gin.Context, project, ext, contentType string, data []byte) {
	h.log.WithRequestContext(c).Info("Label archive sent", map[string]interface{}{
		"project": project,
		"format":  ext,
		"bytes":   len(data),
	})
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_labels.%s", project, ext))
	c.Data(http.StatusOK, contentType, data)
}
