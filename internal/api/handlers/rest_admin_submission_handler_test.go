package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"greendrake/storefront/internal/api/handlers"
	"greendrake/storefront/internal/models"
	"greendrake/storefront/internal/services"
	"greendrake/storefront/internal/utils"
)

func adminSubmissionRouter(svc services.ISubmissionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewRestAdminSubmissionHandler(svc)
	r := gin.New()
	r.GET("/v1/admin/submissions", handler.ListSubmissions)
	r.GET("/v1/admin/submissions/export", handler.ExportSubmissions)
	r.GET("/v1/admin/submissions/:id", handler.GetSubmission)
	r.PUT("/v1/admin/submissions/:id/status", handler.UpdateOrderStatus)
	return r
}

func TestListSubmissions_KindFilter(t *testing.T) {
	mockSvc := new(MockSubmissionService)
	r := adminSubmissionRouter(mockSvc)

	kind := models.KindOrder
	mockSvc.On("GetSubmissions", mock.Anything, services.SubmissionFilter{Kind: &kind}).
		Return([]services.SubmissionDetail{
			{Submission: models.Submission{ID: utils.NewSixID(), Kind: models.KindOrder}},
		}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/admin/submissions?kind=ORDER", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	data, ok := respBody["submissions"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, data, 1)
	mockSvc.AssertExpectations(t)
}

func TestListSubmissions_InvalidStatusFilter(t *testing.T) {
	mockSvc := new(MockSubmissionService)
	r := adminSubmissionRouter(mockSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/admin/submissions?status=TELEPORTED", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "GetSubmissions", mock.Anything, mock.Anything)
}

func TestGetSubmission_NotFound(t *testing.T) {
	mockSvc := new(MockSubmissionService)
	r := adminSubmissionRouter(mockSvc)

	id := utils.NewSixID()
	mockSvc.On("GetSubmissionByID", mock.Anything, id).
		Return(nil, &services.NotFoundError{Message: "submission not found"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/admin/submissions/"+id.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestUpdateOrderStatus_Success(t *testing.T) {
	mockSvc := new(MockSubmissionService)
	r := adminSubmissionRouter(mockSvc)

	id := utils.NewSixID()
	mockSvc.On("UpdateOrderStatus", mock.Anything, id, models.StatusShipped).
		Return(&models.Order{SubmissionID: id, Status: models.StatusShipped}, nil)

	payload, _ := json.Marshal(map[string]string{"status": "SHIPPED"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/v1/admin/submissions/"+id.String()+"/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestUpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	mockSvc := new(MockSubmissionService)
	r := adminSubmissionRouter(mockSvc)

	payload, _ := json.Marshal(map[string]string{"status": "TELEPORTED"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/v1/admin/submissions/"+utils.NewSixID().String()+"/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportSubmissions(t *testing.T) {
	mockSvc := new(MockSubmissionService)
	r := adminSubmissionRouter(mockSvc)

	mockSvc.On("ExportCSV", mock.Anything).
		Return("ID,Kind,Customer,Email,Phone,Items,Status,Created At\n", nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/admin/submissions/export", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "submissions.csv")
	assert.Contains(t, w.Body.String(), "ID,Kind,Customer")
	mockSvc.AssertExpectations(t)
}
