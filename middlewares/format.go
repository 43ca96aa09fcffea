package middlewares

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicdesk/scheduling"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes an HTTP error response to the client.
func HttpError(c *gin.Context, message string, status int, err error) {
	log.Printf("HTTP %d - %s: %v", status, message, err)
	c.JSON(status, gin.H{"error": message})
}

// RespondSchedulingError writes the HTTP response for a scheduling failure,
// choosing the status from the error classification.
func RespondSchedulingError(c *gin.Context, err error) {
	status := statusForKind(scheduling.KindOf(err))
	log.Printf("HTTP %d - %v", status, err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusForKind(kind scheduling.Kind) int {
	switch kind {
	case scheduling.KindNotFound:
		return http.StatusNotFound
	case scheduling.KindSlotUnavailable:
		return http.StatusConflict
	case scheduling.KindInvalid:
		return http.StatusBadRequest
	case scheduling.KindForbidden:
		return http.StatusForbidden
	case scheduling.KindBusy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
