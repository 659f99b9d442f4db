package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"greendrake/storefront/internal/api/handlers"
	"greendrake/storefront/internal/models"
	"greendrake/storefront/internal/services"
	"greendrake/storefront/internal/utils"
)

func adminCatalogRouter(svc services.ICatalogService, storageSvc *MockS3Storage, queue *MockImageTaskEnqueuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewRestAdminCatalogHandler(svc, storageSvc, queue)
	r := gin.New()
	r.GET("/v1/admin/catalog", handler.ListAllItems)
	r.POST("/v1/admin/catalog", handler.CreateItem)
	r.PUT("/v1/admin/catalog/:id", handler.UpdateItem)
	r.DELETE("/v1/admin/catalog/:id", handler.DeleteItem)
	r.POST("/v1/admin/catalog/:id/images", handler.UploadImage)
	r.POST("/v1/admin/catalog/:id/images/presign", handler.PresignImageUpload)
	r.POST("/v1/admin/catalog/:id/images/confirm", handler.ConfirmImageUpload)
	return r
}

func TestAdminCreateItem_Success(t *testing.T) {
	mockSvc := new(MockCatalogService)
	r := adminCatalogRouter(mockSvc, new(MockS3Storage), new(MockImageTaskEnqueuer))

	itemID := utils.NewSixID()
	mockSvc.On("CreateItem", mock.Anything, mock.MatchedBy(func(input services.CatalogItemInput) bool {
		return input.Name == "Oak Table" && input.Category == "dining"
	})).Return(&models.CatalogItem{ID: itemID, Name: "Oak Table", Category: "dining", IsActive: true}, nil)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":        "Oak Table",
		"category":    "dining",
		"description": "Solid oak dining table",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/admin/catalog", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestAdminCreateItem_MissingFields(t *testing.T) {
	mockSvc := new(MockCatalogService)
	r := adminCatalogRouter(mockSvc, new(MockS3Storage), new(MockImageTaskEnqueuer))

	payload, _ := json.Marshal(map[string]interface{}{"name": "Oak Table"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/admin/catalog", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
}

func TestAdminDeleteItem_Deactivates(t *testing.T) {
	mockSvc := new(MockCatalogService)
	r := adminCatalogRouter(mockSvc, new(MockS3Storage), new(MockImageTaskEnqueuer))

	itemID := utils.NewSixID()
	mockSvc.On("DeactivateItem", mock.Anything, itemID).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/v1/admin/catalog/"+itemID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestAdminUploadImage_StoresAndEnqueues(t *testing.T) {
	mockSvc := new(MockCatalogService)
	mockStorage := new(MockS3Storage)
	mockQueue := new(MockImageTaskEnqueuer)
	r := adminCatalogRouter(mockSvc, mockStorage, mockQueue)

	itemID := utils.NewSixID()
	key := "catalog/" + itemID.String() + "/deadbeef_photo.jpg"
	mockSvc.On("GetItemByID", mock.Anything, itemID).
		Return(&models.CatalogItem{ID: itemID, IsActive: true}, nil)
	mockStorage.On("NewImageKey", itemID.String(), "photo.jpg").Return(key)
	mockStorage.On("UploadObject", mock.Anything, key, mock.Anything, mock.Anything).Return(nil)
	mockQueue.On("EnqueueImageProcess", mock.Anything, key, itemID.String()).Return(nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really a jpeg"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/admin/catalog/"+itemID.String()+"/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	mockStorage.AssertExpectations(t)
	mockQueue.AssertExpectations(t)
}

func TestAdminUploadImage_UnknownItem(t *testing.T) {
	mockSvc := new(MockCatalogService)
	mockStorage := new(MockS3Storage)
	mockQueue := new(MockImageTaskEnqueuer)
	r := adminCatalogRouter(mockSvc, mockStorage, mockQueue)

	itemID := utils.NewSixID()
	mockSvc.On("GetItemByID", mock.Anything, itemID).
		Return(nil, &services.NotFoundError{Message: "catalog item not found"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("image", "photo.jpg")
	_, _ = fw.Write([]byte("payload"))
	_ = mw.Close()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/admin/catalog/"+itemID.String()+"/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockStorage.AssertNotCalled(t, "UploadObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockQueue.AssertNotCalled(t, "EnqueueImageProcess", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminPresignImageUpload(t *testing.T) {
	mockSvc := new(MockCatalogService)
	mockStorage := new(MockS3Storage)
	r := adminCatalogRouter(mockSvc, mockStorage, new(MockImageTaskEnqueuer))

	itemID := utils.NewSixID()
	mockSvc.On("GetItemByID", mock.Anything, itemID).
		Return(&models.CatalogItem{ID: itemID, IsActive: true}, nil)
	mockStorage.On("GeneratePresignedPutURL", mock.Anything, itemID.String(), "photo.jpg", "image/jpeg").
		Return("https://s3.example.com/presigned", "catalog/key", nil)

	payload, _ := json.Marshal(map[string]string{"filename": "photo.jpg", "contentType": "image/jpeg"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/admin/catalog/"+itemID.String()+"/images/presign", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "https://s3.example.com/presigned", respBody["url"])
	assert.Equal(t, "catalog/key", respBody["key"])
	mockStorage.AssertExpectations(t)
}

func TestAdminConfirmImageUpload(t *testing.T) {
	mockSvc := new(MockCatalogService)
	mockQueue := new(MockImageTaskEnqueuer)
	r := adminCatalogRouter(mockSvc, new(MockS3Storage), mockQueue)

	itemID := utils.NewSixID()
	mockQueue.On("EnqueueImageProcess", mock.Anything, "catalog/key", itemID.String()).Return(nil)

	payload, _ := json.Marshal(map[string]string{"key": "catalog/key"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/admin/catalog/"+itemID.String()+"/images/confirm", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	mockQueue.AssertExpectations(t)
}
