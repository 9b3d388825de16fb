package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/repository"
)

var exportHeader = []string{
	"ID", "Title", "Description", "Status", "Priority",
	"Due Date", "Assigned To", "Created At", "Updated At",
}

const unassigned = "Unassigned"

// ExportService renders the task table as CSV.
type ExportService struct {
	taskRepo repository.TaskRepository
}

func NewExportService(taskRepo repository.TaskRepository) *ExportService {
	return &ExportService{taskRepo: taskRepo}
}

// WriteCSV writes a header row and one row per task, ordered by id.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer) (err error) {
	ctx, span := startSpan(ctx, "ExportService.WriteCSV")
	defer func() { endSpan(span, err) }()

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	for _, task := range tasks {
		assignee := unassigned
		if task.Assignee != nil {
			assignee = task.Assignee.Username
		}
		dueDate := ""
		if task.DueDate != nil {
			dueDate = task.DueDate.UTC().Format(constants.ExportTimeLayout)
		}

		record := []string{
			strconv.FormatUint(task.ID, 10),
			task.Title,
			task.Description,
			string(task.Status),
			string(task.Priority),
			dueDate,
			assignee,
			task.CreatedAt.UTC().Format(constants.ExportTimeLayout),
			task.UpdatedAt.UTC().Format(constants.ExportTimeLayout),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
