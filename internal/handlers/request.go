package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/utils"
)

// rawBody holds a JSON object keyed by field so handlers can tell an absent
// field from an explicit null.
type rawBody map[string]json.RawMessage

func bindRawBody(c *gin.Context) (rawBody, bool) {
	var body rawBody
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		apierrors.BadRequest(c, "Invalid request body")
		return nil, false
	}
	return body, true
}

func (b rawBody) has(key string) bool {
	_, ok := b[key]
	return ok
}

func (b rawBody) isNull(key string) bool {
	raw, ok := b[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeField decodes key into a T. It returns nil for an absent or null
// field and writes a 400 response when the value has the wrong type.
func decodeField[T any](c *gin.Context, b rawBody, key string) (*T, bool) {
	if !b.has(key) || b.isNull(key) {
		return nil, true
	}
	var value T
	if err := json.Unmarshal(b[key], &value); err != nil {
		apierrors.InvalidFormat(c, key, "Invalid value for "+key)
		return nil, false
	}
	return &value, true
}

// decodeTimestamp decodes an ISO-8601 string field. Empty strings count as null.
func decodeTimestamp(c *gin.Context, b rawBody, key string) (*time.Time, bool) {
	s, ok := decodeField[string](c, b, key)
	if !ok || s == nil || *s == "" {
		return nil, ok
	}
	t, err := utils.ParseTimestamp(*s)
	if err != nil {
		apierrors.InvalidFormat(c, key, "Invalid ISO-8601 date for "+key)
		return nil, false
	}
	return &t, true
}

// parseIDParam parses a uint64 path parameter, writing a 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.InvalidFormat(c, name, "Invalid "+name)
		return 0, false
	}
	return id, true
}
