package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request through gin's logger, with the
// authenticated user appended when there is one.
func Logger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		user := "-"
		if id, ok := param.Keys[UserIDKey].(uint); ok {
			user = fmt.Sprintf("user=%d", id)
		}

		line := fmt.Sprintf("[%s] %s %s %d %s %s %s",
			param.TimeStamp.Format(time.RFC3339),
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			user,
		)
		if param.ErrorMessage != "" {
			line += " " + param.ErrorMessage
		}
		return line + "\n"
	})
}
