package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/requestdata"
)

// Result is the uniform envelope every user-facing endpoint returns.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func RespondOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, Result{Success: true, Data: payload})
}

// RespondError converts the error taxonomy into a status code and a
// user-facing message. Nothing propagates to the caller unclassified.
func RespondError(c *gin.Context, err error) {
	status, message := classify(err)
	c.JSON(status, Result{Success: false, Error: message})
}

func classify(err error) (int, string) {
	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}
	var authErr *apperr.AuthError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized, authErr.Error()
	}
	var notFoundErr *apperr.NotFoundError
	if errors.As(err, &notFoundErr) {
		return http.StatusNotFound, notFoundErr.Error()
	}
	if errors.Is(err, apperr.ErrPaymentRequired) {
		return http.StatusPaymentRequired, err.Error()
	}
	var genErr *apperr.GenerationError
	if errors.As(err, &genErr) {
		if genErr.Retryable {
			return http.StatusServiceUnavailable, "The service is busy right now. Please try again in a moment."
		}
		return http.StatusBadGateway, "Failed to generate a result. Please try again."
	}
	var persistErr *apperr.PersistenceError
	if errors.As(err, &persistErr) {
		return http.StatusInternalServerError, "Something went wrong while saving your data. Please try again."
	}
	return http.StatusInternalServerError, "Something went wrong. Please try again."
}

// ownerFrom resolves the authenticated owner set by the auth middleware.
func ownerFrom(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.OwnerID == uuid.Nil {
		RespondError(c, &apperr.AuthError{Reason: "missing user identity"})
		return uuid.Nil, false
	}
	return rd.OwnerID, true
}
