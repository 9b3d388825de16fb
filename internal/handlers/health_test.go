package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yukikurage/task-tracker/internal/database"
)

func TestHealth(t *testing.T) {
	db, err := database.NewInMemory()
	require.NoError(t, err)
	defer database.Close(db)

	c, w := newTestContext(http.MethodGet, "/health", "")
	NewHealthHandler(db, zap.NewNop()).Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"task-tracker"}`, w.Body.String())
}

func TestHealth_DatabaseDown(t *testing.T) {
	db, err := database.NewInMemory()
	require.NoError(t, err)
	require.NoError(t, database.Close(db))

	c, w := newTestContext(http.MethodGet, "/health", "")
	NewHealthHandler(db, zap.NewNop()).Health(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
