package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
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

func submissionRouter(svc services.ISubmissionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewRestSubmissionHandler(svc)
	r := gin.New()
	r.POST("/v1/submission", handler.CreateSubmission)
	return r
}

func validSubmissionBody(kind string) map[string]interface{} {
	body := map[string]interface{}{
		"kind":         kind,
		"customerName": "Jamie Tester",
		"email":        "jamie@example.com",
		"phone":        "+64211234567",
		"items": []map[string]interface{}{
			{"catalogItemId": utils.NewSixID().String(), "quantity": 2},
		},
	}
	if kind == "ORDER" {
		body["deliveryAddress"] = "12 Harbour View Rd, Wellington"
	}
	return body
}

func TestCreateSubmission_Success(t *testing.T) {
	mockSvc := new(MockSubmissionService)
	r := submissionRouter(mockSvc)

	submissionID := utils.NewSixID()
	mockSvc.On("CreateSubmission", mock.Anything, mock.MatchedBy(func(input services.CreateSubmissionInput) bool {
		return input.Kind == models.KindOrder && len(input.Items) == 1 && input.Items[0].Quantity == 2
	})).Return(&models.Submission{ID: submissionID, Kind: models.KindOrder}, nil)

	payload, _ := json.Marshal(validSubmissionBody("ORDER"))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/submission", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, submissionID.String(), respBody["submissionId"])
	mockSvc.AssertExpectations(t)
}

func TestCreateSubmission_RejectsUnknownKind(t *testing.T) {
	mockSvc := new(MockSubmissionService)
	r := submissionRouter(mockSvc)

	payload, _ := json.Marshal(validSubmissionBody("WISHLIST"))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/submission", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "CreateSubmission", mock.Anything, mock.Anything)
}

func TestCreateSubmission_RejectsBadItemID(t *testing.T) {
	mockSvc := new(MockSubmissionService)
	r := submissionRouter(mockSvc)

	body := validSubmissionBody("ENQUIRY")
	body["items"] = []map[string]interface{}{
		{"catalogItemId": "not-a-valid-id!", "quantity": 1},
	}
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/submission", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "CreateSubmission", mock.Anything, mock.Anything)
}

func TestCreateSubmission_ServiceValidationError(t *testing.T) {
	mockSvc := new(MockSubmissionService)
	r := submissionRouter(mockSvc)

	mockSvc.On("CreateSubmission", mock.Anything, mock.Anything).
		Return(nil, &services.ValidationError{Message: "delivery address is required for orders"})

	body := validSubmissionBody("ORDER")
	delete(body, "deliveryAddress")
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/submission", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Contains(t, fmt.Sprint(respBody["error"]), "delivery address")
	mockSvc.AssertExpectations(t)
}
