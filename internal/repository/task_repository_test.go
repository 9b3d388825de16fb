package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/models"
)

type TaskRepositoryTestSuite struct {
	suite.Suite
	db       *gorm.DB
	ctx      context.Context
	tasks    TaskRepository
	users    UserRepository
	activity ActivityRepository
}

func (suite *TaskRepositoryTestSuite) SetupTest() {
	var err error
	suite.db, err = database.NewInMemory()
	suite.Require().NoError(err)

	suite.ctx = context.Background()
	suite.tasks = NewTaskRepository(suite.db)
	suite.users = NewUserRepository(suite.db)
	suite.activity = NewActivityRepository(suite.db)
}

func (suite *TaskRepositoryTestSuite) TearDownTest() {
	suite.Require().NoError(database.Close(suite.db))
}

func (suite *TaskRepositoryTestSuite) createTask(title string, status models.TaskStatus, due *time.Time) *models.Task {
	task := &models.Task{Title: title, Status: status, Priority: models.TaskPriorityMedium, DueDate: due}
	suite.Require().NoError(suite.tasks.Create(suite.ctx, task, &models.ActivityLog{
		Action:      models.ActionCreated,
		Description: "created",
	}))
	return task
}

func (suite *TaskRepositoryTestSuite) TestCreate_WritesActivity() {
	task := suite.createTask("Ship report", models.TaskStatusPending, nil)
	suite.NotZero(task.ID)

	logs, err := suite.activity.ListByTask(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Require().Len(logs, 1)
	suite.Equal(task.ID, logs[0].TaskID)
}

func (suite *TaskRepositoryTestSuite) TestFindByID_NotFound() {
	_, err := suite.tasks.FindByID(suite.ctx, 42)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *TaskRepositoryTestSuite) TestList_DueWindow() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) *time.Time {
		t := base.Add(time.Duration(h) * time.Hour)
		return &t
	}

	suite.createTask("late", models.TaskStatusPending, at(30))
	suite.createTask("early", models.TaskStatusPending, at(5))
	suite.createTask("done", models.TaskStatusCompleted, at(6))
	suite.createTask("outside", models.TaskStatusPending, at(100))
	suite.createTask("undated", models.TaskStatusPending, nil)

	from, to := base, base.Add(48*time.Hour)
	completed := models.TaskStatusCompleted
	tasks, err := suite.tasks.List(suite.ctx, TaskFilter{
		ExcludeStatus: &completed,
		DueDateFrom:   &from,
		DueDateTo:     &to,
		SortByDueDate: true,
	})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)
	suite.Equal("early", tasks[0].Title)
	suite.Equal("late", tasks[1].Title)
}

func (suite *TaskRepositoryTestSuite) TestUpdate_WithoutActivity() {
	task := suite.createTask("Draft", models.TaskStatusPending, nil)
	task.Title = "Final"
	suite.Require().NoError(suite.tasks.Update(suite.ctx, task, nil))

	reloaded, err := suite.tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Equal("Final", reloaded.Title)

	logs, err := suite.activity.ListByTask(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Len(logs, 1)
}

func (suite *TaskRepositoryTestSuite) TestDelete_CascadesActivity() {
	task := suite.createTask("Doomed", models.TaskStatusPending, nil)

	suite.Require().NoError(suite.tasks.Delete(suite.ctx, task.ID))
	suite.ErrorIs(suite.tasks.Delete(suite.ctx, task.ID), gorm.ErrRecordNotFound)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.ActivityLog{}).Where("task_id = ?", task.ID).Count(&count).Error)
	suite.Zero(count)
}

func (suite *TaskRepositoryTestSuite) TestUserDelete_ClearsReferences() {
	user := &models.User{Username: "alice", Email: "alice@example.com"}
	suite.Require().NoError(suite.users.Create(suite.ctx, user))

	task := &models.Task{Title: "Owned", Status: models.TaskStatusPending, Priority: models.TaskPriorityLow, AssignedTo: &user.ID, CreatedBy: &user.ID}
	suite.Require().NoError(suite.tasks.Create(suite.ctx, task, &models.ActivityLog{Action: models.ActionCreated, UserID: &user.ID}))

	suite.Require().NoError(suite.users.Delete(suite.ctx, user.ID))
	suite.ErrorIs(suite.users.Delete(suite.ctx, user.ID), gorm.ErrRecordNotFound)

	reloaded, err := suite.tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Nil(reloaded.AssignedTo)
	suite.Nil(reloaded.CreatedBy)

	logs, err := suite.activity.ListByTask(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Require().Len(logs, 1)
	suite.Nil(logs[0].UserID)
}

func (suite *TaskRepositoryTestSuite) TestListRecent_Limit() {
	task := suite.createTask("Busy", models.TaskStatusPending, nil)
	for i := 0; i < 3; i++ {
		suite.Require().NoError(suite.db.Create(&models.ActivityLog{
			TaskID: task.ID,
			Action: models.ActionUpdated,
		}).Error)
	}

	logs, err := suite.activity.ListRecent(suite.ctx, 2)
	suite.Require().NoError(err)
	suite.Require().Len(logs, 2)
	suite.Greater(logs[0].ID, logs[1].ID)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}
