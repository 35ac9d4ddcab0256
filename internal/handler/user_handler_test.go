package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"accountsvc/internal/service"
	"accountsvc/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userServiceStub struct {
	createFn func(ctx context.Context, req service.CreateUserRequest) (*service.UserResponse, error)
	getFn    func(ctx context.Context, id uint) (*service.UserResponse, error)
	listFn   func(ctx context.Context) ([]service.UserResponse, error)
	searchFn func(ctx context.Context, q service.SearchUsersQuery) ([]service.UserResponse, error)
	updateFn func(ctx context.Context, id uint, req service.UpdateUserRequest) (*service.UserResponse, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (s *userServiceStub) CreateUser(ctx context.Context, req service.CreateUserRequest) (*service.UserResponse, error) {
	return s.createFn(ctx, req)
}

func (s *userServiceStub) GetUserByID(ctx context.Context, id uint) (*service.UserResponse, error) {
	return s.getFn(ctx, id)
}

func (s *userServiceStub) ListUsers(ctx context.Context) ([]service.UserResponse, error) {
	return s.listFn(ctx)
}

func (s *userServiceStub) SearchUsers(ctx context.Context, q service.SearchUsersQuery) ([]service.UserResponse, error) {
	return s.searchFn(ctx, q)
}

func (s *userServiceStub) UpdateUser(ctx context.Context, id uint, req service.UpdateUserRequest) (*service.UserResponse, error) {
	return s.updateFn(ctx, id, req)
}

func (s *userServiceStub) DeleteUser(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func newUserRouter(stub *userServiceStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewUserHandler(stub).RegisterRoutes(router.Group(""))
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestGetUserByIDNotFound(t *testing.T) {
	router := newUserRouter(&userServiceStub{
		getFn: func(context.Context, uint) (*service.UserResponse, error) {
			return nil, service.ErrUserNotFound
		},
	})

	rec := doRequest(router, http.MethodGet, "/users/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Error, "User not found")
}

func TestGetUserByIDRejectsNonNumericID(t *testing.T) {
	router := newUserRouter(&userServiceStub{})

	rec := doRequest(router, http.MethodGet, "/users/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchUsersForwardsQueryParams(t *testing.T) {
	var captured service.SearchUsersQuery
	router := newUserRouter(&userServiceStub{
		searchFn: func(_ context.Context, q service.SearchUsersQuery) ([]service.UserResponse, error) {
			captured = q
			return []service.UserResponse{}, nil
		},
	})

	rec := doRequest(router, http.MethodGet, "/users/search?name=Ann&email=x.com&phone=555&sort_by=name&order=desc", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.SearchUsersQuery{
		Name:   "Ann",
		Email:  "x.com",
		Phone:  "555",
		SortBy: "name",
		Order:  "desc",
	}, captured)
}

func TestSearchUsersBadSortFieldIsBadRequest(t *testing.T) {
	router := newUserRouter(&userServiceStub{
		searchFn: func(context.Context, service.SearchUsersQuery) ([]service.UserResponse, error) {
			return nil, fmt.Errorf("%w: %q", service.ErrInvalidSortField, "password")
		},
	})

	rec := doRequest(router, http.MethodGet, "/users/search?sort_by=password", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Error, "invalid sort field")
}

func TestCreateUserReturnsCreated(t *testing.T) {
	router := newUserRouter(&userServiceStub{
		createFn: func(_ context.Context, req service.CreateUserRequest) (*service.UserResponse, error) {
			return &service.UserResponse{ID: 7, Name: req.Name, Email: req.Email}, nil
		},
	})

	rec := doRequest(router, http.MethodPost, "/users", `{"name":"Ann","email":"ann@x.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "success", env.Status)
}

func TestCreateUserValidatesPayload(t *testing.T) {
	router := newUserRouter(&userServiceStub{})

	// Missing required email fails binding before the service is reached
	rec := doRequest(router, http.MethodPost, "/users", `{"name":"Ann"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUserDecodesPresenceOnly(t *testing.T) {
	var captured service.UpdateUserRequest
	router := newUserRouter(&userServiceStub{
		updateFn: func(_ context.Context, _ uint, req service.UpdateUserRequest) (*service.UserResponse, error) {
			captured = req
			return &service.UserResponse{ID: 1}, nil
		},
	})

	rec := doRequest(router, http.MethodPut, "/users/1", `{"phone":"555-1234"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured.Phone)
	assert.Equal(t, "555-1234", *captured.Phone)
	assert.Nil(t, captured.Name)
	assert.Nil(t, captured.Email)
	assert.Nil(t, captured.CreditBalance)
	assert.Nil(t, captured.RoleID)
}

func TestUpdateUserNotFound(t *testing.T) {
	router := newUserRouter(&userServiceStub{
		updateFn: func(context.Context, uint, service.UpdateUserRequest) (*service.UserResponse, error) {
			return nil, service.ErrUserNotFound
		},
	})

	rec := doRequest(router, http.MethodPut, "/users/42", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUserReturnsConfirmation(t *testing.T) {
	router := newUserRouter(&userServiceStub{
		deleteFn: func(context.Context, uint) error { return nil },
	})

	rec := doRequest(router, http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "User deleted successfully", env.Data)
}

func TestDeleteUserNotFound(t *testing.T) {
	router := newUserRouter(&userServiceStub{
		deleteFn: func(context.Context, uint) error { return service.ErrUserNotFound },
	})

	rec := doRequest(router, http.MethodDelete, "/users/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
