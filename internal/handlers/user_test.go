package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
)

type UserHandlerTestSuite struct {
	suite.Suite
	db       *gorm.DB
	ctx      context.Context
	services testServices
	handler  *UserHandler
}

func (suite *UserHandlerTestSuite) SetupTest() {
	var err error
	suite.db, err = database.NewInMemory()
	suite.Require().NoError(err)

	suite.ctx = context.Background()
	suite.services = newTestServices(suite.db)
	suite.handler = NewUserHandler(suite.services.users, suite.services.tasks)
}

func (suite *UserHandlerTestSuite) TearDownTest() {
	suite.Require().NoError(database.Close(suite.db))
}

func (suite *UserHandlerTestSuite) createTestUser(username string) *models.User {
	user, err := suite.services.users.CreateUser(suite.ctx, services.CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
	})
	suite.Require().NoError(err)
	return user
}

func (suite *UserHandlerTestSuite) TestCreateUser_Success() {
	c, w := newTestContext(http.MethodPost, "/api/users", `{"username":"alice","email":"alice@example.com"}`)
	suite.handler.CreateUser(c)

	suite.Equal(http.StatusCreated, w.Code)
	var user dto.UserDTO
	suite.Require().NoError(decodeBody(w, &user))
	suite.NotZero(user.ID)
	suite.Equal("alice", user.Username)
	suite.Equal("alice@example.com", user.Email)
}

func (suite *UserHandlerTestSuite) TestCreateUser_MissingFields() {
	for _, body := range []string{`{"email":"a@example.com"}`, `{"username":"alice"}`, `{"username":"","email":"a@example.com"}`} {
		c, w := newTestContext(http.MethodPost, "/api/users", body)
		suite.handler.CreateUser(c)

		suite.Equal(http.StatusBadRequest, w.Code, body)
		var apiErr apierrors.APIError
		suite.Require().NoError(decodeBody(w, &apiErr))
		suite.Equal(apierrors.ErrCodeMissingField, apiErr.Code, body)
	}
}

func (suite *UserHandlerTestSuite) TestCreateUser_Conflict() {
	suite.createTestUser("alice")

	for _, body := range []string{
		`{"username":"alice","email":"other@example.com"}`,
		`{"username":"bob","email":"alice@example.com"}`,
	} {
		c, w := newTestContext(http.MethodPost, "/api/users", body)
		suite.handler.CreateUser(c)
		suite.Equal(http.StatusConflict, w.Code, body)
	}
}

func (suite *UserHandlerTestSuite) TestListUsers() {
	suite.createTestUser("alice")
	suite.createTestUser("bob")

	c, w := newTestContext(http.MethodGet, "/api/users", "")
	suite.handler.ListUsers(c)

	suite.Equal(http.StatusOK, w.Code)
	var users []dto.UserDTO
	suite.Require().NoError(decodeBody(w, &users))
	suite.Len(users, 2)
}

func (suite *UserHandlerTestSuite) TestGetUser() {
	user := suite.createTestUser("alice")

	c, w := newTestContext(http.MethodGet, "/api/users/1", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.GetUser(c)
	suite.Equal(http.StatusOK, w.Code)

	var got dto.UserDTO
	suite.Require().NoError(decodeBody(w, &got))
	suite.Equal(user.ID, got.ID)

	c, w = newTestContext(http.MethodGet, "/api/users/99", "")
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	suite.handler.GetUser(c)
	suite.Equal(http.StatusNotFound, w.Code)

	c, w = newTestContext(http.MethodGet, "/api/users/abc", "")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	suite.handler.GetUser(c)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *UserHandlerTestSuite) TestGetUserByUsername() {
	suite.createTestUser("alice")

	c, w := newTestContext(http.MethodGet, "/api/users/by-username/alice", "")
	c.Params = gin.Params{{Key: "username", Value: "alice"}}
	suite.handler.GetUserByUsername(c)
	suite.Equal(http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodGet, "/api/users/by-username/nobody", "")
	c.Params = gin.Params{{Key: "username", Value: "nobody"}}
	suite.handler.GetUserByUsername(c)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *UserHandlerTestSuite) TestUpdateUser() {
	suite.createTestUser("alice")
	suite.createTestUser("bob")

	c, w := newTestContext(http.MethodPut, "/api/users/1", `{"email":"alice@work.example.com"}`)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.UpdateUser(c)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.UserDTO
	suite.Require().NoError(decodeBody(w, &got))
	suite.Equal("alice", got.Username)
	suite.Equal("alice@work.example.com", got.Email)

	c, w = newTestContext(http.MethodPut, "/api/users/1", `{"username":"bob"}`)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.UpdateUser(c)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *UserHandlerTestSuite) TestDeleteUser() {
	user := suite.createTestUser("alice")
	task, err := suite.services.tasks.CreateTask(suite.ctx, services.CreateTaskInput{Title: "Orphan", AssignedTo: &user.ID})
	suite.Require().NoError(err)

	c, w := newTestContext(http.MethodDelete, "/api/users/1", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.DeleteUser(c)
	suite.Equal(http.StatusOK, w.Code)

	reloaded, err := suite.services.tasks.GetTask(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Nil(reloaded.AssignedTo)

	c, w = newTestContext(http.MethodDelete, "/api/users/1", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.DeleteUser(c)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *UserHandlerTestSuite) TestListUserTasks() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	_, err := suite.services.tasks.CreateTask(suite.ctx, services.CreateTaskInput{Title: "Alice's", AssignedTo: &alice.ID})
	suite.Require().NoError(err)
	_, err = suite.services.tasks.CreateTask(suite.ctx, services.CreateTaskInput{Title: "Bob's", AssignedTo: &bob.ID})
	suite.Require().NoError(err)

	c, w := newTestContext(http.MethodGet, "/api/users/1/tasks", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.ListUserTasks(c)

	suite.Equal(http.StatusOK, w.Code)
	var tasks []dto.TaskDTO
	suite.Require().NoError(decodeBody(w, &tasks))
	suite.Require().Len(tasks, 1)
	suite.Equal("Alice's", tasks[0].Title)

	c, w = newTestContext(http.MethodGet, "/api/users/42/tasks", "")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	suite.handler.ListUserTasks(c)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
