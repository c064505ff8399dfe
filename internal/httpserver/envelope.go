package httpserver

import (
	"net/http"

	"customer-manager/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	msgNotFound      = "Customer not found in Database"
	msgInternal      = "Error occurred during the operation"
	msgRouteNotFound = "Route not found"
)

// envelope is the body of every customer API response.
type envelope struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Payload any    `json:"payload"`
}

func newEnvelope(code int, message string, payload any) envelope {
	return envelope{
		Code:    code,
		Status:  http.StatusText(code),
		Message: message,
		Payload: payload,
	}
}

func respondSuccess(c *gin.Context, code int, message string, payload any) {
	c.JSON(code, newEnvelope(code, message, payload))
}

// respondError maps err to its HTTP outcome and writes a payload-less envelope.
func respondError(c *gin.Context, err error) {
	code, message := classify(err)
	log := zerolog.Ctx(c.Request.Context())
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("customer operation failed")
	} else {
		log.Debug().Err(err).Int("status", code).Msg("customer request rejected")
	}
	c.AbortWithStatusJSON(code, newEnvelope(code, message, nil))
}

// classify checks validation, then not-found, then falls back to internal.
func classify(err error) (int, string) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest, err.Error()
	case domain.KindNotFound:
		return http.StatusNotFound, msgNotFound
	}
	message := msgInternal
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return http.StatusInternalServerError, message
}
