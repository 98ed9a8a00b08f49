package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"errand-service/internal/models"
	"errand-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	var created models.User
	if val := args.Get(0); val != nil {
		created = val.(models.User)
	}
	return created, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) CountActiveUsers(ctx context.Context, userIDs []int) (int, error) {
	args := m.Called(ctx, userIDs)
	return args.Int(0), args.Error(1)
}

func (m *UserRepositoryMock) DeactivateUser(ctx context.Context, userID int, anonymizedEmail string) error {
	args := m.Called(ctx, userID, anonymizedEmail)
	return args.Error(0)
}

type OrderRepositoryMock struct {
	mock.Mock
}

func (m *OrderRepositoryMock) CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem, images []models.OrderImage) (models.Order, error) {
	args := m.Called(ctx, order, items, images)
	var created models.Order
	if val := args.Get(0); val != nil {
		created = val.(models.Order)
	}
	return created, args.Error(1)
}

func (m *OrderRepositoryMock) GetOrder(ctx context.Context, orderID int) (models.Order, error) {
	args := m.Called(ctx, orderID)
	var order models.Order
	if val := args.Get(0); val != nil {
		order = val.(models.Order)
	}
	return order, args.Error(1)
}

func (m *OrderRepositoryMock) ListOrders(ctx context.Context, filter repositories.OrderFilter) ([]models.Order, int, error) {
	args := m.Called(ctx, filter)
	var orders []models.Order
	if val := args.Get(0); val != nil {
		orders = val.([]models.Order)
	}
	return orders, args.Int(1), args.Error(2)
}

func (m *OrderRepositoryMock) DeleteOrder(ctx context.Context, orderID int) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type RequestRepositoryMock struct {
	mock.Mock
}

func (m *RequestRepositoryMock) CreateRequest(ctx context.Context, orderID int, counterpartID int) (models.OrderRequest, error) {
	args := m.Called(ctx, orderID, counterpartID)
	var req models.OrderRequest
	if val := args.Get(0); val != nil {
		req = val.(models.OrderRequest)
	}
	return req, args.Error(1)
}

func (m *RequestRepositoryMock) GetRequest(ctx context.Context, requestID int) (models.OrderRequest, error) {
	args := m.Called(ctx, requestID)
	var req models.OrderRequest
	if val := args.Get(0); val != nil {
		req = val.(models.OrderRequest)
	}
	return req, args.Error(1)
}

func (m *RequestRepositoryMock) UpdateStatus(ctx context.Context, requestID int, next models.RequestStatus) (models.OrderRequest, error) {
	args := m.Called(ctx, requestID, next)
	var req models.OrderRequest
	if val := args.Get(0); val != nil {
		req = val.(models.OrderRequest)
	}
	return req, args.Error(1)
}

func (m *RequestRepositoryMock) DeleteRequest(ctx context.Context, requestID int) (bool, error) {
	args := m.Called(ctx, requestID)
	return args.Bool(0), args.Error(1)
}

func (m *RequestRepositoryMock) ListRequestsForUser(ctx context.Context, userID int, offset int, limit int) ([]models.OrderRequest, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	var reqs []models.OrderRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.OrderRequest)
	}
	return reqs, args.Int(1), args.Error(2)
}

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) FindOrCreateRoom(ctx context.Context, roomKey string, participantIDs []int) (models.Room, error) {
	args := m.Called(ctx, roomKey, participantIDs)
	var room models.Room
	if val := args.Get(0); val != nil {
		room = val.(models.Room)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) GetRoomByKey(ctx context.Context, roomKey string) (models.Room, error) {
	args := m.Called(ctx, roomKey)
	var room models.Room
	if val := args.Get(0); val != nil {
		room = val.(models.Room)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) IsParticipant(ctx context.Context, roomID int, userID int) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepositoryMock) ListRoomsForUser(ctx context.Context, userID int) ([]models.Room, error) {
	args := m.Called(ctx, userID)
	var rooms []models.Room
	if val := args.Get(0); val != nil {
		rooms = val.([]models.Room)
	}
	return rooms, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, roomID int, senderID int, content string, messageType string) (models.Message, error) {
	args := m.Called(ctx, roomID, senderID, content, messageType)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) PageMessages(ctx context.Context, roomID int, limit int, offset int) ([]models.Message, error) {
	args := m.Called(ctx, roomID, limit, offset)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.OrderRepository = (*OrderRepositoryMock)(nil)
var _ repositories.RequestRepository = (*RequestRepositoryMock)(nil)
var _ repositories.RoomRepository = (*RoomRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
