package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"artistplan/internal/storage"
)

// respondData writes a success envelope carrying a single named payload.
func respondData(c *gin.Context, code int, key string, value any) {
	c.JSON(code, gin.H{
		"status": "success",
		"data":   gin.H{key: value},
	})
}

// respondList writes a success envelope with a results count, matching the
// shape list endpoints use.
func respondList(c *gin.Context, key string, count int, value any) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": count,
		"data":    gin.H{key: value},
	})
}

// respondFail writes a client-error envelope.
func respondFail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"status":  "fail",
		"message": message,
	})
}

// respondServerError logs the failure and writes an error envelope.
func (s *Server) respondServerError(c *gin.Context, err error) {
	s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  "error",
		"message": err.Error(),
	})
}

// respondStoreError maps a storage failure to the right envelope: not-found
// becomes a 404 fail, anything else a 500 error.
func (s *Server) respondStoreError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, storage.ErrNotFound) {
		respondFail(c, http.StatusNotFound, notFoundMsg)
		return
	}
	s.respondServerError(c, err)
}

func respondDeleted(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// parseDate accepts either a plain calendar day or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", value)
	}
	return t, nil
}

// applyDate parses an optional request date into the target field. A nil
// request value leaves the field unchanged.
func applyDate(target **time.Time, value *string) error {
	if value == nil {
		return nil
	}
	if *value == "" {
		*target = nil
		return nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return err
	}
	*target = &t
	return nil
}

// oneOf reports whether value matches one of the allowed options. Empty
// values are always accepted so optional fields can stay unset.
func oneOf(value string, options ...string) bool {
	if value == "" {
		return true
	}
	for _, opt := range options {
		if value == opt {
			return true
		}
	}
	return false
}

func setIf[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}
