package handlers_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"greendrake/storefront/internal/models"
	"greendrake/storefront/internal/services"
	"greendrake/storefront/internal/utils"
)

// MockSubmissionService
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) CreateSubmission(ctx context.Context, input services.CreateSubmissionInput) (*models.Submission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionService) GetSubmissions(ctx context.Context, filter services.SubmissionFilter) ([]services.SubmissionDetail, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.SubmissionDetail), args.Error(1)
}

func (m *MockSubmissionService) GetSubmissionByID(ctx context.Context, id utils.SixID) (*services.SubmissionDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SubmissionDetail), args.Error(1)
}

func (m *MockSubmissionService) UpdateOrderStatus(ctx context.Context, submissionID utils.SixID, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, submissionID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockSubmissionService) ExportCSV(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockCatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetPublicCatalog(ctx context.Context, category *string) ([]models.CatalogItem, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CatalogItem), args.Error(1)
}

func (m *MockCatalogService) GetItemByID(ctx context.Context, id utils.SixID) (*models.CatalogItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogItem), args.Error(1)
}

func (m *MockCatalogService) GetAllItems(ctx context.Context) ([]models.CatalogItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CatalogItem), args.Error(1)
}

func (m *MockCatalogService) CreateItem(ctx context.Context, input services.CatalogItemInput) (*models.CatalogItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogItem), args.Error(1)
}

func (m *MockCatalogService) UpdateItem(ctx context.Context, id utils.SixID, updates map[string]interface{}) (*models.CatalogItem, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogItem), args.Error(1)
}

func (m *MockCatalogService) DeactivateItem(ctx context.Context, id utils.SixID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) AddImageToItem(ctx context.Context, id utils.SixID, imageKey string) error {
	args := m.Called(ctx, id, imageKey)
	return args.Error(0)
}

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.AdminUser, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

func (m *MockAuthService) CreateAdmin(ctx context.Context, email, password, name string) (*models.AdminUser, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

// MockImageTaskEnqueuer
type MockImageTaskEnqueuer struct {
	mock.Mock
}

func (m *MockImageTaskEnqueuer) EnqueueImageProcess(ctx context.Context, s3Key, catalogItemID string) error {
	args := m.Called(ctx, s3Key, catalogItemID)
	return args.Error(0)
}

// MockS3Storage
type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) UploadObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, itemID, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, itemID, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockS3Storage) NewImageKey(itemID, filename string) string {
	args := m.Called(itemID, filename)
	return args.String(0)
}
