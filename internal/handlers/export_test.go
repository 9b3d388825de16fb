package handlers

import (
	"context"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/services"
)

func TestExportCSV(t *testing.T) {
	db, err := database.NewInMemory()
	require.NoError(t, err)
	defer database.Close(db)

	svc := newTestServices(db)
	_, err = svc.tasks.CreateTask(context.Background(), services.CreateTaskInput{Title: "Ship, report", Description: "line one"})
	require.NoError(t, err)

	c, w := newTestContext(http.MethodGet, "/export/csv", "")
	NewExportHandler(svc.export).ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Regexp(t, `^attachment; filename=tasks_export_\d{8}_\d{6}\.csv$`, w.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ID", records[0][0])
	assert.Equal(t, "Ship, report", records[1][1])
	assert.Equal(t, "Unassigned", records[1][6])
}

func TestExportCSV_DatabaseError(t *testing.T) {
	db, err := database.NewInMemory()
	require.NoError(t, err)
	svc := newTestServices(db)
	require.NoError(t, database.Close(db))

	c, w := newTestContext(http.MethodGet, "/export/csv", "")
	NewExportHandler(svc.export).ExportCSV(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, c.Errors)
}
