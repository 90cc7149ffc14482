package handlers_test

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/services"
)

// --- Mocks ---

// MockInquiryService implements services.IInquiryService
type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) CreateInquiry(ctx context.Context, input services.CreateInquiryInput, userID *primitive.ObjectID) (*models.Inquiry, error) {
	args := m.Called(ctx, input, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) FindInquiryByID(ctx context.Context, id primitive.ObjectID, ident services.Identity) (*models.Inquiry, error) {
	args := m.Called(ctx, id, ident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) ListInquiries(ctx context.Context, ident services.Identity, status *models.InquiryStatus, page, limit int) ([]models.Inquiry, *services.Pagination, error) {
	args := m.Called(ctx, ident, status, page, limit)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]models.Inquiry), args.Get(1).(*services.Pagination), args.Error(2)
}

func (m *MockInquiryService) UpdateInquiryStatus(ctx context.Context, id primitive.ObjectID, newStatus models.InquiryStatus, adminNotes string) (*models.Inquiry, error) {
	args := m.Called(ctx, id, newStatus, adminNotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) AddInquiryQuote(ctx context.Context, id primitive.ObjectID, finalPrice float64, validUntil *time.Time, terms string) (*models.Inquiry, error) {
	args := m.Called(ctx, id, finalPrice, validUntil, terms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) DeleteInquiry(ctx context.Context, id primitive.ObjectID, ident services.Identity) error {
	args := m.Called(ctx, id, ident)
	return args.Error(0)
}

// MockCatalogService implements services.ICatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateResource(ctx context.Context, kind models.ResourceKind, res *models.Resource) (*models.Resource, error) {
	args := m.Called(ctx, kind, res)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *MockCatalogService) FindResourceByID(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID) (*models.Resource, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *MockCatalogService) ListResources(ctx context.Context, kind models.ResourceKind, limit int) ([]models.Resource, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Resource), args.Error(1)
}

func (m *MockCatalogService) UpdateResource(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID, updates map[string]interface{}) (*models.Resource, error) {
	args := m.Called(ctx, kind, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *MockCatalogService) DeleteResource(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

func (m *MockCatalogService) AddPhoto(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID, photoKey string) error {
	args := m.Called(ctx, kind, id, photoKey)
	return args.Error(0)
}

func (m *MockCatalogService) Snapshot(ctx context.Context, kind models.ResourceKind, id primitive.ObjectID) (*models.ResourceSnapshot, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResourceSnapshot), args.Error(1)
}

// MockUserService implements services.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockS3Storage implements storage.IS3Storage
type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, kind models.ResourceKind, resourceID, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, kind, resourceID, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

// MockAsynqClient implements handlers.IAsynqClient
type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	mockArgs := []interface{}{ctx, task}
	for _, opt := range opts {
		mockArgs = append(mockArgs, opt)
	}
	args := m.Called(mockArgs...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}
