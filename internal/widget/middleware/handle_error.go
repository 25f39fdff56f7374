package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type errorEnvelope struct {
	Error string `json:"error"`
}

// HandleError logs the failure, writes the uniform error envelope and aborts
// the handler chain.
func HandleError(c *gin.Context, code int, message string, err error) {
	if logger, exists := c.Get("logger"); exists {
		event := logger.(*zerolog.Logger).Error()
		if err != nil {
			event = event.Err(err)
		}

		event.
			Int("code", code).
			Msg(message)
	}

	c.AbortWithStatusJSON(code, errorEnvelope{Error: message})
}
