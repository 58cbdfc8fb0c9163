package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/services"
)

type HoroscopeHandler struct {
	log              *logger.Logger
	horoscopeService services.HoroscopeService
}

func NewHoroscopeHandler(log *logger.Logger, horoscopeService services.HoroscopeService) *HoroscopeHandler {
	return &HoroscopeHandler{
		log:              log.With("handler", "HoroscopeHandler"),
		horoscopeService: horoscopeService,
	}
}

// POST /api/horoscopes/daily
func (h *HoroscopeHandler) Daily(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}
	var body struct {
		BirthDate  string `json:"birthDate"`
		BirthTime  string `json:"birthTime"`
		ZodiacSign string `json:"zodiacSign"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, &apperr.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	horoscope, err := h.horoscopeService.Daily(c.Request.Context(), ownerID, body.BirthDate, body.BirthTime, body.ZodiacSign)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, horoscope)
}

// GET /api/horoscopes
func (h *HoroscopeHandler) History(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			RespondError(c, &apperr.ValidationError{Field: "limit", Reason: "must be a non-negative integer"})
			return
		}
		limit = parsed
	}
	horoscopes, err := h.horoscopeService.History(c.Request.Context(), ownerID, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, horoscopes)
}
