package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"ordercomposite/pkg/queue"
)

// Pinger probes one downstream dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports composite liveness including every downstream
// dependency and the message queue
type HealthHandler struct {
	dependencies map[string]Pinger
	queue        queue.Queue
	timeout      time.Duration
}

// NewHealthHandler creates a health handler over named dependencies
func NewHealthHandler(dependencies map[string]Pinger, q queue.Queue) *HealthHandler {
	return &HealthHandler{
		dependencies: dependencies,
		queue:        q,
		timeout:      3 * time.Second,
	}
}

// RegisterRoutes wires the health route
func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
}

// Health probes all dependencies concurrently. Responds 200 when everything
// is up, 503 with per-dependency detail otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	var mu sync.Mutex
	statuses := make(map[string]string, len(h.dependencies)+1)
	allUp := true

	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			statuses[name] = "down"
			allUp = false
			return
		}
		statuses[name] = "up"
	}

	var wg sync.WaitGroup
	for name, dependency := range h.dependencies {
		wg.Add(1)
		go func(name string, dependency Pinger) {
			defer wg.Done()
			record(name, dependency.Ping(ctx))
		}(name, dependency)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		record("queue", h.queue.Health())
	}()
	wg.Wait()

	status := http.StatusOK
	overall := "up"
	if !allUp {
		status = http.StatusServiceUnavailable
		overall = "down"
	}
	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": statuses,
	})
}
