package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/services"
)

type DashboardHandlerTestSuite struct {
	suite.Suite
	db       *gorm.DB
	ctx      context.Context
	services testServices
	handler  *DashboardHandler
}

func (suite *DashboardHandlerTestSuite) SetupTest() {
	var err error
	suite.db, err = database.NewInMemory()
	suite.Require().NoError(err)

	suite.ctx = context.Background()
	suite.services = newTestServices(suite.db)
	suite.handler = NewDashboardHandler(suite.services.tasks, suite.services.notifications)
}

func (suite *DashboardHandlerTestSuite) TearDownTest() {
	_ = database.Close(suite.db)
}

func (suite *DashboardHandlerTestSuite) TestDashboard() {
	due := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	_, err := suite.services.tasks.CreateTask(suite.ctx, services.CreateTaskInput{Title: "Ship report", DueDate: &due})
	suite.Require().NoError(err)

	later := time.Now().UTC().Add(30 * 24 * time.Hour)
	_, err = suite.services.tasks.CreateTask(suite.ctx, services.CreateTaskInput{Title: "Plan offsite", DueDate: &later})
	suite.Require().NoError(err)

	for i := 0; i < 10; i++ {
		_, err := suite.services.tasks.CreateTask(suite.ctx, services.CreateTaskInput{Title: fmt.Sprintf("Chore %d", i)})
		suite.Require().NoError(err)
	}

	c, w := newTestContext(http.MethodGet, "/api/dashboard", "")
	suite.handler.Dashboard(c)

	suite.Equal(http.StatusOK, w.Code)

	var resp DashboardResponse
	suite.Require().NoError(decodeBody(w, &resp))
	suite.Len(resp.Tasks, 12)
	suite.Require().Len(resp.Notifications, 1)
	suite.Equal("Ship report", resp.Notifications[0].TaskTitle)
	suite.Len(resp.RecentActivity, constants.DashboardActivityLimit)
	suite.Equal(`Task "Chore 9" was created`, resp.RecentActivity[0].Description)
}

func (suite *DashboardHandlerTestSuite) TestDashboard_Empty() {
	c, w := newTestContext(http.MethodGet, "/api/dashboard", "")
	suite.handler.Dashboard(c)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"tasks":[],"notifications":[],"recent_activity":[]}`, w.Body.String())
}

func (suite *DashboardHandlerTestSuite) TestDashboard_DatabaseError() {
	suite.Require().NoError(database.Close(suite.db))

	c, w := newTestContext(http.MethodGet, "/api/dashboard", "")
	suite.handler.Dashboard(c)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotEmpty(c.Errors)
}

func TestDashboardHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardHandlerTestSuite))
}
