package web

import (
	"github.com/gin-gonic/gin"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
	loggerKey       = "logger"
)

// RequestID tags each request with an id and a logger carrying it.
func RequestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewV4().String()
	}
	c.Set(requestIDKey, id)
	c.Set(loggerKey, log.WithField("request_id", id))
	c.Header(requestIDHeader, id)
	c.Next()
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func GetLogger(c *gin.Context) *log.Entry {
	if l, ok := c.Get(loggerKey); ok {
		if e, ok := l.(*log.Entry); ok {
			return e
		}
	}
	return log.NewEntry(log.StandardLogger())
}
