package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"seminar-registration-backend/config"
	"seminar-registration-backend/internal/assignment"
	"seminar-registration-backend/internal/db"
	"seminar-registration-backend/internal/model"
	"seminar-registration-backend/internal/payment"
	"seminar-registration-backend/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), "test.db")
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))

	s := store.NewGormStore(testDB)
	assignments := assignment.NewService(s)
	payments := payment.NewService(s, assignments, config.PaymentConfig{
		FeeAmount: 10000, Currency: "XOF", ReceiptPrefix: "TST-", SuccessCode: "00",
	})

	cfg := config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTLSeconds: 1}
	return NewRouter(&cfg, s, assignments, payments), s
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAssignEndpoint(t *testing.T) {
	router, s := newTestRouter(t)
	ctx := context.Background()

	d := model.Dormitory{Name: "A", Gender: model.GenderMale, TotalCapacity: 1, AvailableSlots: 1}
	require.NoError(t, s.CreateDormitory(ctx, &d))
	i := model.Inscription{ID: uuid.NewString(), FirstName: "Moussa", LastName: "Ba", Gender: model.GenderMale}
	require.NoError(t, s.CreateInscription(ctx, &i))

	w := doJSON(t, router, http.MethodPost, "/api/assignments", gin.H{"inscription_id": i.ID})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Redundant trigger delivery: same assignment, 200 instead of 201.
	w = doJSON(t, router, http.MethodPost, "/api/assignments", gin.H{"inscription_id": i.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			AlreadyAssigned bool `json:"already_assigned"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.AlreadyAssigned)
}

func TestAssignEndpointCapacityExhausted(t *testing.T) {
	router, s := newTestRouter(t)

	i := model.Inscription{ID: uuid.NewString(), FirstName: "Awa", LastName: "Sy", Gender: model.GenderFemale}
	require.NoError(t, s.CreateInscription(context.Background(), &i))

	w := doJSON(t, router, http.MethodPost, "/api/assignments", gin.H{"inscription_id": i.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestDormitorySlotsEndpoint(t *testing.T) {
	router, s := newTestRouter(t)

	d := model.Dormitory{Name: "B", Gender: model.GenderFemale, TotalCapacity: 10, AvailableSlots: 4}
	require.NoError(t, s.CreateDormitory(context.Background(), &d))

	w := doJSON(t, router, http.MethodGet, "/api/dormitories/1/slots", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Available int `json:"available"`
			Total     int `json:"total"`
			Occupied  int `json:"occupied"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.Available)
	assert.Equal(t, 10, resp.Data.Total)
	assert.Equal(t, 6, resp.Data.Occupied)
}
