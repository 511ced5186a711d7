package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercomposite/pkg/queue"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type healthBody struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

func healthRouter(dependencies map[string]Pinger, q queue.Queue) *gin.Engine {
	router := gin.New()
	NewHealthHandler(dependencies, q).RegisterRoutes(router)
	return router
}

func TestHealth_AllUp(t *testing.T) {
	q := queue.NewMemoryQueue(nil)
	defer q.Close()

	router := healthRouter(map[string]Pinger{
		"product":   stubPinger{},
		"inventory": stubPinger{},
		"order":     stubPinger{},
		"shipping":  stubPinger{},
	}, q)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "up", body.Status)
	assert.Len(t, body.Dependencies, 5)
	assert.Equal(t, "up", body.Dependencies["queue"])
}

func TestHealth_OneDown(t *testing.T) {
	q := queue.NewMemoryQueue(nil)
	defer q.Close()

	router := healthRouter(map[string]Pinger{
		"product":   stubPinger{},
		"inventory": stubPinger{err: errors.New("connection refused")},
		"order":     stubPinger{},
		"shipping":  stubPinger{},
	}, q)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "down", body.Status)
	assert.Equal(t, "down", body.Dependencies["inventory"])
	assert.Equal(t, "up", body.Dependencies["product"])
}

func TestHealth_QueueDown(t *testing.T) {
	q := queue.NewMemoryQueue(nil)
	require.NoError(t, q.Close())

	router := healthRouter(map[string]Pinger{"product": stubPinger{}}, q)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
