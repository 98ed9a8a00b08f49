package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"errand-service/internal/mocks"
	"errand-service/internal/models"
	"errand-service/internal/repositories"
	"errand-service/internal/ws"
)

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/rooms", handler.CreateRoom)
	r.GET("/rooms", handler.ListRooms)
	r.GET("/rooms/:room_key/messages", handler.GetMessages)
	r.POST("/rooms/:room_key/messages", handler.PostMessage)
	return r
}

func TestCreateRoomDerivesCanonicalKey(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(roomRepo, nil, userRepo, ws.NewHub(), nil)
	router := setupChatRouter(handler)

	// Participants arrive unsorted and without the caller; the repo still
	// sees the canonical key and the sorted set including the caller.
	userRepo.On("CountActiveUsers", mock.Anything, []int{1, 2, 3}).Return(3, nil).Once()
	roomRepo.On("FindOrCreateRoom", mock.Anything, "1-2-3", []int{1, 2, 3}).
		Return(models.Room{ID: 4, RoomKey: "1-2-3"}, nil).Once()

	body := bytes.NewBufferString(`{"participant_ids":[3,2]}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	roomRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestCreateRoomMinimumMembership(t *testing.T) {
	handler := NewChatHandler(new(mocks.RoomRepositoryMock), nil, new(mocks.UserRepositoryMock), ws.NewHub(), nil)
	router := setupChatRouter(handler)

	// Only the caller remains after dedupe.
	body := bytes.NewBufferString(`{"participant_ids":[1]}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRoomUnknownParticipant(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(roomRepo, nil, userRepo, ws.NewHub(), nil)
	router := setupChatRouter(handler)

	userRepo.On("CountActiveUsers", mock.Anything, []int{1, 99}).Return(1, nil).Once()

	body := bytes.NewBufferString(`{"participant_ids":[99]}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	userRepo.AssertExpectations(t)
	roomRepo.AssertNotCalled(t, "FindOrCreateRoom", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetMessagesPagination(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewChatHandler(roomRepo, messageRepo, nil, ws.NewHub(), nil)
	router := setupChatRouter(handler)

	roomRepo.On("GetRoomByKey", mock.Anything, "1-2").Return(models.Room{ID: 4, RoomKey: "1-2"}, nil).Once()
	roomRepo.On("IsParticipant", mock.Anything, 4, 1).Return(true, nil).Once()
	messageRepo.On("PageMessages", mock.Anything, 4, 2, 2).
		Return([]models.Message{{ID: 3, RoomID: 4}, {ID: 2, RoomID: 4}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms/1-2/messages?limit=2&offset=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	roomRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestGetMessagesDefaultLimit(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewChatHandler(roomRepo, messageRepo, nil, ws.NewHub(), nil)
	router := setupChatRouter(handler)

	roomRepo.On("GetRoomByKey", mock.Anything, "1-2").Return(models.Room{ID: 4}, nil).Once()
	roomRepo.On("IsParticipant", mock.Anything, 4, 1).Return(true, nil).Once()
	messageRepo.On("PageMessages", mock.Anything, 4, 30, 0).Return([]models.Message{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms/1-2/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestGetMessagesRoomNotFound(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	handler := NewChatHandler(roomRepo, new(mocks.MessageRepositoryMock), nil, ws.NewHub(), nil)
	router := setupChatRouter(handler)

	roomRepo.On("GetRoomByKey", mock.Anything, "7-8").Return(models.Room{}, repositories.ErrRoomNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms/7-8/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	roomRepo.AssertExpectations(t)
}

func TestPostMessageSuccess(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewChatHandler(roomRepo, messageRepo, nil, ws.NewHub(), nil)
	router := setupChatRouter(handler)

	roomRepo.On("GetRoomByKey", mock.Anything, "1-2").Return(models.Room{ID: 4}, nil).Once()
	roomRepo.On("IsParticipant", mock.Anything, 4, 1).Return(true, nil).Once()
	messageRepo.On("CreateMessage", mock.Anything, 4, 1, "hi", "text").
		Return(models.Message{ID: 7, RoomID: 4, SenderID: 1, Content: "hi", Type: "text"}, nil).Once()

	body := bytes.NewBufferString(`{"message":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms/1-2/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	roomRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestPostMessageNonParticipant(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	handler := NewChatHandler(roomRepo, new(mocks.MessageRepositoryMock), nil, ws.NewHub(), nil)
	router := setupChatRouter(handler)

	roomRepo.On("GetRoomByKey", mock.Anything, "2-3").Return(models.Room{ID: 5}, nil).Once()
	roomRepo.On("IsParticipant", mock.Anything, 5, 1).Return(false, nil).Once()

	body := bytes.NewBufferString(`{"message":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms/2-3/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	roomRepo.AssertExpectations(t)
}

func TestListRooms(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	handler := NewChatHandler(roomRepo, nil, nil, ws.NewHub(), nil)
	router := setupChatRouter(handler)

	roomRepo.On("ListRoomsForUser", mock.Anything, 1).
		Return([]models.Room{{ID: 4, RoomKey: "1-2"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	roomRepo.AssertExpectations(t)
}
