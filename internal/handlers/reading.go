package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/services"
	"github.com/cosmicpalm/destiny-backend/internal/types"
)

type ReadingHandler struct {
	log            *logger.Logger
	readingService services.ReadingService
}

func NewReadingHandler(log *logger.Logger, readingService services.ReadingService) *ReadingHandler {
	return &ReadingHandler{
		log:            log.With("handler", "ReadingHandler"),
		readingService: readingService,
	}
}

// POST /api/readings
func (h *ReadingHandler) Generate(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}
	var req types.ReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, &apperr.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	reading, err := h.readingService.Generate(c.Request.Context(), ownerID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, reading)
}

// GET /api/readings
func (h *ReadingHandler) List(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}
	readings, err := h.readingService.List(c.Request.Context(), ownerID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, readings)
}

// DELETE /api/readings/:id
func (h *ReadingHandler) Delete(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, &apperr.ValidationError{Field: "id", Reason: "must be a uuid"})
		return
	}
	if err := h.readingService.Delete(c.Request.Context(), ownerID, id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// PATCH /api/readings/:id/name
func (h *ReadingHandler) Rename(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, &apperr.ValidationError{Field: "id", Reason: "must be a uuid"})
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, &apperr.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	if err := h.readingService.Rename(c.Request.Context(), ownerID, id, body.Name); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id, "name": body.Name})
}

// POST /api/readings/:id/translate
func (h *ReadingHandler) Translate(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, &apperr.ValidationError{Field: "id", Reason: "must be a uuid"})
		return
	}
	var body struct {
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, &apperr.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	sections, err := h.readingService.Translate(c.Request.Context(), ownerID, id, body.Language)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"language": body.Language, "sections": sections})
}
