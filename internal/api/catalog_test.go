package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/swipechef/backend/internal/api"
	"github.com/swipechef/backend/internal/mocks"
	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/service"
)

// publicGet issues a request without any Authorization header.
func publicGet(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestCatalogHandler(t *testing.T) {
	catalog := new(mocks.MockCatalogService)
	catalog.On("ListCategories", mock.Anything).
		Return([]models.Category{{ID: 1, Name: "Breakfast", Slug: "breakfast"}}, nil).Once()
	catalog.On("GetCategory", mock.Anything, int64(1)).
		Return(&models.Category{ID: 1, Name: "Breakfast", Slug: "breakfast"}, nil).Once()
	catalog.On("GetCategory", mock.Anything, int64(2)).Return(nil, service.ErrNotFound).Once()
	catalog.On("ListTags", mock.Anything).Return(nil, errors.New("connection reset")).Once()
	catalog.On("GetTag", mock.Anything, int64(4)).
		Return(&models.Tag{ID: 4, Name: "Vegan", Slug: "vegan"}, nil).Once()

	// mounted without auth, as the router does
	r := gin.New()
	api.NewCatalogHandler(catalog).RegisterRoutes(r.Group("/api/v1"))

	w := publicGet(r, "/api/v1/categories")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"breakfast"`)

	w = publicGet(r, "/api/v1/categories/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"category"`)

	w = publicGet(r, "/api/v1/categories/2")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = publicGet(r, "/api/v1/categories/-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = publicGet(r, "/api/v1/tags")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", errorBody(t, w))

	w = publicGet(r, "/api/v1/tags/4")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"vegan"`)

	catalog.AssertExpectations(t)
}
