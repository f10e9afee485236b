package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/glucowise/backend/internal/api"
	"github.com/pageza/glucowise/backend/internal/middleware"
	"github.com/pageza/glucowise/backend/internal/mocks"
	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/pageza/glucowise/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser stands in for the authentication middleware.
func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{fmt.Errorf("%w: no readings", service.ErrNotFound), http.StatusNotFound, "no readings"},
		{fmt.Errorf("%w: readings[2]: value out of range", service.ErrBadRequest), http.StatusBadRequest, "readings[2]: value out of range"},
		{fmt.Errorf("%w: invalid credentials", service.ErrUnauthorized), http.StatusUnauthorized, "invalid credentials"},
		{fmt.Errorf("%w: email already registered", service.ErrConflict), http.StatusConflict, "email already registered"},
		{fmt.Errorf("%w: pq: connection refused", service.ErrInternal), http.StatusInternalServerError, "internal server error"},
		{errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			userID := uuid.New()
			glucose := new(mocks.MockGlucoseService)
			glucose.On("LatestReading", mock.Anything, userID).Return(nil, tt.err)

			r := gin.New()
			api.NewGlucoseHandler(glucose).RegisterRoutes(r.Group("", withUser(userID)))

			w := performRequest(r, http.MethodGet, "/glucose/latest", nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.msg, errorBody(t, w))
		})
	}
}

func TestSubmitReading(t *testing.T) {
	userID := uuid.New()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	glucose := new(mocks.MockGlucoseService)
	glucose.On("SubmitReading", mock.Anything, userID, 123.0, mock.MatchedBy(func(got *time.Time) bool {
		return got != nil && got.Equal(ts)
	})).Return(&models.GlucoseReading{ID: uuid.New(), UserID: userID, Value: 123, Timestamp: ts}, nil)

	r := gin.New()
	api.NewGlucoseHandler(glucose).RegisterRoutes(r.Group("", withUser(userID)))

	w := performRequest(r, http.MethodPost, "/glucose", `{"value":123,"timestamp":1709294400000}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var reading models.GlucoseReading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reading))
	assert.Equal(t, 123.0, reading.Value)
	glucose.AssertExpectations(t)
}

func TestSubmitReadingRequiresValue(t *testing.T) {
	glucose := new(mocks.MockGlucoseService)
	r := gin.New()
	api.NewGlucoseHandler(glucose).RegisterRoutes(r.Group("", withUser(uuid.New())))

	w := performRequest(r, http.MethodPost, "/glucose", `{"timestamp":"2024-03-01T12:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPost, "/glucose", `{"value":100,"timestamp":"last tuesday"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	glucose.AssertNotCalled(t, "SubmitReading", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitWithoutIdentity(t *testing.T) {
	r := gin.New()
	api.NewGlucoseHandler(new(mocks.MockGlucoseService)).RegisterRoutes(r.Group(""))

	w := performRequest(r, http.MethodPost, "/glucose", `{"value":100}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitBulkNamesMissingValue(t *testing.T) {
	glucose := new(mocks.MockGlucoseService)
	r := gin.New()
	api.NewGlucoseHandler(glucose).RegisterRoutes(r.Group("", withUser(uuid.New())))

	w := performRequest(r, http.MethodPost, "/glucose/bulk", `{"readings":[{"value":100},{"timestamp":1709294400000}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w), "readings[1]")
}

func TestSubmitBulk(t *testing.T) {
	userID := uuid.New()
	glucose := new(mocks.MockGlucoseService)
	glucose.On("SubmitBulk", mock.Anything, userID, mock.MatchedBy(func(in []service.ReadingInput) bool {
		return len(in) == 2 && in[0].Value == 100 && in[0].Timestamp == nil && in[1].Timestamp != nil
	})).Return([]models.GlucoseReading{{Value: 100}, {Value: 110}}, nil)

	r := gin.New()
	api.NewGlucoseHandler(glucose).RegisterRoutes(r.Group("", withUser(userID)))

	w := performRequest(r, http.MethodPost, "/glucose/bulk", `{"readings":[{"value":100},{"value":110,"timestamp":"2024-03-01T12:00:00Z"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
}

func TestListReadingsQuery(t *testing.T) {
	userID := uuid.New()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	glucose := new(mocks.MockGlucoseService)
	glucose.On("ListReadings", mock.Anything, userID, mock.MatchedBy(func(q store.ReadingQuery) bool {
		return q.Limit == 5 && q.From != nil && q.From.Equal(from) && q.To == nil
	})).Return([]models.GlucoseReading{}, nil)

	r := gin.New()
	api.NewGlucoseHandler(glucose).RegisterRoutes(r.Group("", withUser(userID)))

	w := performRequest(r, http.MethodGet, "/glucose?limit=5&from=2024-03-01T00:00:00Z", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	glucose.AssertExpectations(t)

	w = performRequest(r, http.MethodGet, "/glucose?limit=many", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodGet, "/glucose?to=soon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeviceRoutesShareSubmitHandlers(t *testing.T) {
	userID := uuid.New()
	glucose := new(mocks.MockGlucoseService)
	glucose.On("SubmitReading", mock.Anything, userID, 99.0, (*time.Time)(nil)).
		Return(&models.GlucoseReading{UserID: userID, Value: 99}, nil)

	devices := new(mocks.MockDeviceService)
	devices.On("Resolve", mock.Anything, "k1").Return(userID, true, nil)

	r := gin.New()
	api.NewGlucoseHandler(glucose).RegisterDeviceRoutes(r.Group(""), middleware.DeviceAuth(devices, zerolog.Nop()))

	w := performRequest(r, http.MethodPost, "/device/glucose", `{"value":99,"apiKey":"k1"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	glucose.AssertExpectations(t)
}

func TestIssueDeviceKey(t *testing.T) {
	userID := uuid.New()
	key := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	devices := new(mocks.MockDeviceService)
	devices.On("IssueKeyFor", mock.Anything, userID).Return(key, nil)

	r := gin.New()
	api.NewDeviceHandler(devices).RegisterRoutes(r.Group("", withUser(userID)))

	w := performRequest(r, http.MethodPost, "/devices/keys", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp types.DeviceKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, key, resp.APIKey)
	assert.Equal(t, "01234567", resp.Prefix)
}

func TestLogin(t *testing.T) {
	userID := uuid.New()
	auth := new(mocks.MockAuthService)
	auth.On("Login", mock.Anything, "a@example.com", "password123").Return("tok", &models.User{ID: userID}, nil)
	auth.On("Login", mock.Anything, "a@example.com", "nope").
		Return("", nil, fmt.Errorf("%w: invalid credentials", service.ErrUnauthorized))

	r := gin.New()
	api.NewAuthHandler(auth).RegisterRoutes(r.Group(""))

	w := performRequest(r, http.MethodPost, "/auth/login", map[string]string{"email": "a@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "tok", body["access_token"])

	w = performRequest(r, http.MethodPost, "/auth/login", map[string]string{"email": "a@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", errorBody(t, w))
}

func TestSignupValidation(t *testing.T) {
	auth := new(mocks.MockAuthService)
	r := gin.New()
	api.NewAuthHandler(auth).RegisterRoutes(r.Group(""))

	w := performRequest(r, http.MethodPost, "/auth/signup", map[string]string{"email": "not-an-email", "password": "password123", "name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	auth.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

type fakeImages struct{}

func (fakeImages) ImageURL(_ context.Context, ref string) (string, error) {
	if ref == "broken.png" {
		return "", errors.New("no credentials")
	}
	return "https://cdn.example.com/" + ref + "?sig=1", nil
}

func TestRecommendationsResponse(t *testing.T) {
	userID := uuid.New()
	recs := new(mocks.MockRecommendationService)
	recs.On("GetRecommendations", mock.Anything, userID).Return(&service.RecommendationResult{
		Trend: service.TrendRising,
		Band:  service.Band{Min: 0, Max: 55},
		Recommendations: []models.Food{
			{
				ID: uuid.New(), Name: "Lentil Soup", GlycemicIndex: 32, MealType: models.MealLunch,
				ImageRef: "lentil.png", Calories: 180, Protein: 12,
				Allergens: []models.FoodAllergen{{Name: "celery"}},
			},
			{ID: uuid.New(), Name: "Apple", GlycemicIndex: 36, MealType: models.MealSnack, ImageRef: "broken.png"},
		},
	}, nil)

	r := gin.New()
	api.NewRecommendationHandler(recs, fakeImages{}, zerolog.Nop()).RegisterRoutes(r.Group("", withUser(userID)))

	w := performRequest(r, http.MethodGet, "/recommendations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rising", resp.Trend)
	assert.Equal(t, types.BandResponse{Min: 0, Max: 55}, resp.Band)
	require.Len(t, resp.Recommendations, 2)

	soup := resp.Recommendations[0]
	assert.Equal(t, "https://cdn.example.com/lentil.png?sig=1", soup.ImageURL)
	assert.Equal(t, 180.0, soup.Nutrition.Calories)
	assert.Equal(t, []string{"celery"}, soup.Allergens)
	assert.Equal(t, []string{}, soup.Tags)

	assert.Equal(t, "broken.png", resp.Recommendations[1].ImageURL)
}

func TestRecommendationsUnknownUser(t *testing.T) {
	userID := uuid.New()
	recs := new(mocks.MockRecommendationService)
	recs.On("GetRecommendations", mock.Anything, userID).Return(nil, fmt.Errorf("%w: user %s", service.ErrNotFound, userID))

	r := gin.New()
	api.NewRecommendationHandler(recs, nil, zerolog.Nop()).RegisterRoutes(r.Group("", withUser(userID)))

	w := performRequest(r, http.MethodGet, "/recommendations", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetFoodRejectsBadID(t *testing.T) {
	r := gin.New()
	api.NewFoodHandler(new(mocks.MockFoodService), nil, zerolog.Nop()).RegisterRoutes(r.Group(""))

	w := performRequest(r, http.MethodGet, "/foods/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchFoodsPassesFilters(t *testing.T) {
	foods := new(mocks.MockFoodService)
	foods.On("SearchFoods", mock.Anything, "oat", "breakfast", 3).Return([]models.Food{{Name: "Oatmeal", ImageRef: "https://img.example.com/oat.jpg"}}, nil)

	r := gin.New()
	api.NewFoodHandler(foods, nil, zerolog.Nop()).RegisterRoutes(r.Group(""))

	w := performRequest(r, http.MethodGet, "/foods?q=oat&meal_type=breakfast&limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Foods []types.FoodResponse `json:"foods"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Foods, 1)
	assert.Equal(t, "https://img.example.com/oat.jpg", body.Foods[0].ImageURL)
}
