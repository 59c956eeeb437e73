package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/assistant"
	apierrors "github.com/saadrehman171000/SmartInvest-RealEstate/internal/errors"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/middleware"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/services"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/storage"
)

type propertyMocks struct {
	service *MockPropertyService
	images  *MockImageStore
	asker   *MockAsker
}

func setupPropertyRouter() (*gin.Engine, propertyMocks) {
	m := propertyMocks{
		service: new(MockPropertyService),
		images:  new(MockImageStore),
		asker:   new(MockAsker),
	}
	router, v1 := newTestRouter()
	handler := NewPropertyHandler(m.service, m.images, m.asker, logger.New("test"))

	properties := v1.Group("/properties")
	properties.GET("", handler.List)
	properties.POST("", handler.Create)
	properties.GET("/:id", handler.Get)
	properties.PUT("/:id", handler.Update)
	properties.DELETE("/:id", handler.Delete)
	properties.PATCH("/:id/status", middleware.RequireAdmin(), handler.SetStatus)
	properties.POST("/:id/images", handler.UploadImages)
	properties.POST("/:id/ask", handler.Ask)
	return router, m
}

func sampleProperty(ownerID string) *models.Property {
	return &models.Property{
		ID:       testPropertyID,
		UserID:   ownerID,
		Title:    "Elm Street Duplex",
		Address:  "12 Elm St, Springfield",
		Price:    100000,
		ARV:      150000,
		DealType: models.DealTypeFixFlip,
		Status:   models.StatusDealPending,
		Images:   []string{},
		IQScore:  7,
	}
}

func samplePropertyBody() map[string]interface{} {
	return map[string]interface{}{
		"title":      "Elm Street Duplex",
		"address":    "12 Elm St, Springfield",
		"price":      100000,
		"dealType":   "Fix & Flip",
		"repairCost": 20000,
		"arv":        150000,
	}
}

func TestPropertyHandler_List(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		search string
		mine   bool
	}{
		{name: "all listings", query: "", search: "", mine: false},
		{name: "search is trimmed", query: "?search=%20elm%20", search: "elm", mine: false},
		{name: "own listings", query: "?mine=true", search: "", mine: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := setupPropertyRouter()
			m.service.On("List", mock.Anything, testUser, tt.search, tt.mine).
				Return([]models.Property{*sampleProperty(testUser.ID)}, nil)

			w := doJSON(t, router, http.MethodGet, "/api/v1/properties"+tt.query, userToken, nil)

			require.Equal(t, http.StatusOK, w.Code)
			var resp PropertyListResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, 1, resp.Count)
			assert.Equal(t, "Elm Street Duplex", resp.Properties[0].Title)
			m.service.AssertExpectations(t)
		})
	}

	t.Run("empty result is an empty array", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("List", mock.Anything, testUser, "", false).Return(nil, nil)

		w := doJSON(t, router, http.MethodGet, "/api/v1/properties", userToken, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"properties":[],"count":0}`, w.Body.String())
	})

	t.Run("invalid mine flag", func(t *testing.T) {
		router, m := setupPropertyRouter()

		w := doJSON(t, router, http.MethodGet, "/api/v1/properties?mine=maybe", userToken, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.service.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPropertyHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Get", mock.Anything, testPropertyID).Return(sampleProperty(testUser.ID), nil)

		w := doJSON(t, router, http.MethodGet, "/api/v1/properties/"+testPropertyID, userToken, nil)

		require.Equal(t, http.StatusOK, w.Code)
		var p models.Property
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, testPropertyID, p.ID)
		assert.Equal(t, 7, p.IQScore)
	})

	t.Run("not found", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Get", mock.Anything, "missing").Return(nil, services.ErrPropertyNotFound)

		w := doJSON(t, router, http.MethodGet, "/api/v1/properties/missing", userToken, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apierrors.ErrNotFound, decodeError(t, w).Code)
	})
}

func TestPropertyHandler_Create(t *testing.T) {
	t.Run("creates listing", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Create", mock.Anything, testUser, mock.MatchedBy(func(in models.PropertyInput) bool {
			return in.Title == "Elm Street Duplex" && in.Price == 100000 &&
				in.DealType == models.DealTypeFixFlip && in.RepairCost == 20000 && in.ARV == 150000
		})).Return(sampleProperty(testUser.ID), nil)

		w := doJSON(t, router, http.MethodPost, "/api/v1/properties", userToken, samplePropertyBody())

		assert.Equal(t, http.StatusCreated, w.Code)
		m.service.AssertExpectations(t)
	})

	t.Run("binding rejects non-positive price", func(t *testing.T) {
		router, m := setupPropertyRouter()
		body := samplePropertyBody()
		body["price"] = 0
		delete(body, "title")

		w := doJSON(t, router, http.MethodPost, "/api/v1/properties", userToken, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		detail := decodeError(t, w)
		assert.Equal(t, apierrors.ErrValidation, detail.Code)
		assert.Contains(t, detail.Details, "price")
		assert.Contains(t, detail.Details, "title")
		m.service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("binding rejects amounts above the cap", func(t *testing.T) {
		router, m := setupPropertyRouter()
		body := samplePropertyBody()
		body["price"] = 1e17
		body["arv"] = 1e13

		w := doJSON(t, router, http.MethodPost, "/api/v1/properties", userToken, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		detail := decodeError(t, w)
		assert.Contains(t, detail.Details, "price")
		assert.Contains(t, detail.Details, "arv")
		m.service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("service validation error", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Create", mock.Anything, testUser, mock.Anything).
			Return(nil, fmt.Errorf("%w: unknown deal type", services.ErrInvalidProperty))
		body := samplePropertyBody()
		body["dealType"] = "Wholesale"

		w := doJSON(t, router, http.MethodPost, "/api/v1/properties", userToken, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Message, "unknown deal type")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router, _ := setupPropertyRouter()
		w := doJSON(t, router, http.MethodPost, "/api/v1/properties", "", samplePropertyBody())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPropertyHandler_UpdateAndDelete(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"success", nil, http.StatusOK},
		{"not owner", services.ErrForbidden, http.StatusForbidden},
		{"missing", services.ErrPropertyNotFound, http.StatusNotFound},
		{"store failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run("update "+tt.name, func(t *testing.T) {
			router, m := setupPropertyRouter()
			if tt.err != nil {
				m.service.On("Update", mock.Anything, testUser, testPropertyID, mock.Anything).Return(nil, tt.err)
			} else {
				m.service.On("Update", mock.Anything, testUser, testPropertyID, mock.Anything).Return(sampleProperty(testUser.ID), nil)
			}

			w := doJSON(t, router, http.MethodPut, "/api/v1/properties/"+testPropertyID, userToken, samplePropertyBody())

			assert.Equal(t, tt.status, w.Code)
		})

		t.Run("delete "+tt.name, func(t *testing.T) {
			router, m := setupPropertyRouter()
			m.service.On("Delete", mock.Anything, testUser, testPropertyID).Return(tt.err)

			w := doJSON(t, router, http.MethodDelete, "/api/v1/properties/"+testPropertyID, userToken, nil)

			if tt.err == nil {
				assert.Equal(t, http.StatusNoContent, w.Code)
				assert.Empty(t, w.Body.String())
				return
			}
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestPropertyHandler_SetStatus(t *testing.T) {
	t.Run("admin changes status", func(t *testing.T) {
		router, m := setupPropertyRouter()
		sold := sampleProperty(testUser.ID)
		sold.Status = models.StatusSold
		m.service.On("SetStatus", mock.Anything, testAdmin, testPropertyID, models.StatusSold).Return(sold, nil)

		w := doJSON(t, router, http.MethodPatch, "/api/v1/properties/"+testPropertyID+"/status", adminToken,
			map[string]string{"status": "Sold"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"Sold"`)
	})

	t.Run("invalid status", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("SetStatus", mock.Anything, testAdmin, testPropertyID, models.PropertyStatus("Closed")).
			Return(nil, services.ErrInvalidStatus)

		w := doJSON(t, router, http.MethodPatch, "/api/v1/properties/"+testPropertyID+"/status", adminToken,
			map[string]string{"status": "Closed"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("owner is not enough", func(t *testing.T) {
		router, m := setupPropertyRouter()

		w := doJSON(t, router, http.MethodPatch, "/api/v1/properties/"+testPropertyID+"/status", userToken,
			map[string]string{"status": "Sold"})

		assert.Equal(t, http.StatusForbidden, w.Code)
		m.service.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// multipartImages builds a request body with one "file" part per filename.
func multipartImages(t *testing.T, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range filenames {
		part, err := writer.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func postImages(t *testing.T, router *gin.Engine, path, token string, filenames ...string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartImages(t, filenames...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPropertyHandler_UploadImages(t *testing.T) {
	path := "/api/v1/properties/" + testPropertyID + "/images"
	prefix := storage.DefaultPrefix + "/" + testPropertyID

	t.Run("uploads and attaches images in order", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Get", mock.Anything, testPropertyID).Return(sampleProperty(testUser.ID), nil)
		m.images.On("Upload", mock.Anything, prefix, "front.jpg", mock.Anything).Return("https://cdn.example.com/a.jpg", nil).Once()
		m.images.On("Upload", mock.Anything, prefix, "back.png", mock.Anything).Return("https://cdn.example.com/b.png", nil).Once()
		updated := sampleProperty(testUser.ID)
		updated.Images = []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.png"}
		m.service.On("AddImages", mock.Anything, testUser, testPropertyID,
			[]string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.png"}).Return(updated, nil)

		w := postImages(t, router, path, userToken, "front.jpg", "back.png")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "https://cdn.example.com/b.png")
		m.images.AssertExpectations(t)
		m.service.AssertExpectations(t)
	})

	t.Run("non-owner is rejected before upload", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Get", mock.Anything, testPropertyID).Return(sampleProperty("someone-else"), nil)

		w := postImages(t, router, path, userToken, "front.jpg")

		assert.Equal(t, http.StatusForbidden, w.Code)
		m.images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unsupported file type rejects the whole batch", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Get", mock.Anything, testPropertyID).Return(sampleProperty(testUser.ID), nil)

		w := postImages(t, router, path, userToken, "front.jpg", "notes.pdf")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, storage.ErrUnsupportedImage.Error(), decodeError(t, w).Message)
		m.images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("too many files", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Get", mock.Anything, testPropertyID).Return(sampleProperty(testUser.ID), nil)
		names := make([]string, MaxImagesPerRequest+1)
		for i := range names {
			names[i] = fmt.Sprintf("img%d.jpg", i)
		}

		w := postImages(t, router, path, userToken, names...)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Message, "At most 10")
	})

	t.Run("storage failure", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Get", mock.Anything, testPropertyID).Return(sampleProperty(testUser.ID), nil)
		m.images.On("Upload", mock.Anything, prefix, "front.jpg", mock.Anything).Return("", errors.New("bucket unreachable"))

		w := postImages(t, router, path, userToken, "front.jpg")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		m.service.AssertNotCalled(t, "AddImages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.images.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("not multipart", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Get", mock.Anything, testPropertyID).Return(sampleProperty(testUser.ID), nil)

		w := doJSON(t, router, http.MethodPost, path, userToken, map[string]string{"file": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPropertyHandler_Ask(t *testing.T) {
	path := "/api/v1/properties/" + testPropertyID + "/ask"

	t.Run("returns the answer", func(t *testing.T) {
		router, m := setupPropertyRouter()
		property := sampleProperty(testUser.ID)
		m.service.On("Get", mock.Anything, testPropertyID).Return(property, nil)
		m.asker.On("Ask", mock.Anything, *property, "Is the rehab budget realistic?").Return("Yes, for a duplex.", nil)

		w := doJSON(t, router, http.MethodPost, path, userToken, map[string]string{"question": "Is the rehab budget realistic?"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"answer":"Yes, for a duplex."}`, w.Body.String())
	})

	t.Run("missing question", func(t *testing.T) {
		router, m := setupPropertyRouter()

		w := doJSON(t, router, http.MethodPost, path, userToken, map[string]string{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.asker.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("assistant disabled", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Get", mock.Anything, testPropertyID).Return(sampleProperty(testUser.ID), nil)
		m.asker.On("Ask", mock.Anything, mock.Anything, mock.Anything).Return("", assistant.ErrAssistantUnavailable)

		w := doJSON(t, router, http.MethodPost, path, userToken, map[string]string{"question": "Worth it?"})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, apierrors.ErrServiceUnavailable, decodeError(t, w).Code)
	})

	t.Run("blank question after trimming", func(t *testing.T) {
		router, m := setupPropertyRouter()
		m.service.On("Get", mock.Anything, testPropertyID).Return(sampleProperty(testUser.ID), nil)
		m.asker.On("Ask", mock.Anything, mock.Anything, "   ").Return("", assistant.ErrEmptyQuestion)

		w := doJSON(t, router, http.MethodPost, path, userToken, map[string]string{"question": "   "})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, strings.Contains(decodeError(t, w).Message, "question"))
	})
}
