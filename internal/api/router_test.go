package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"machine-booking-backend/config"
	"machine-booking-backend/internal/mirror"
	"machine-booking-backend/internal/model"
	"machine-booking-backend/internal/rules"
	"machine-booking-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testAPI wires the full request path against in-memory backends: memory
// entity store, live mirror, rules engine, and a throwaway sqlite database
// for subscriptions.
type testAPI struct {
	router *gin.Engine
	engine *rules.Engine
	mirror *mirror.Mirror
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	s := store.NewMemoryStore()
	m := mirror.New(s)
	m.Start()
	t.Cleanup(m.Close)

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PushSubscription{}, &model.SubscriptionMachine{}))

	engine := rules.NewEngine(s, m, nil)
	h := NewHandler(engine, m, db, nil)

	cfg := &config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	}
	return &testAPI{router: NewRouter(h, cfg), engine: engine, mirror: m}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
