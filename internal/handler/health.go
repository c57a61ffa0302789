package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/restockr/auth-service/internal/constants"
	"github.com/restockr/auth-service/pkg/circuit"
	"github.com/restockr/auth-service/pkg/logger"
	"github.com/restockr/auth-service/pkg/redis"
)

const probeTimeout = 5 * time.Second

// Component states reported by the health endpoint. Only the database going
// down flips the endpoint to 503: revocation checks fail open and mail
// delivery is asynchronous, so neither takes the instance out of rotation.
const (
	statusUp       = "healthy"
	statusDown     = "unhealthy"
	statusDegraded = "degraded"
	statusDisabled = "disabled"
)

type HealthHandler struct {
	db          *gorm.DB
	redisClient redis.Client
	mailBreaker *circuit.Breaker
}

func NewHealthHandler(db *gorm.DB, redisClient redis.Client, mailBreaker *circuit.Breaker) *HealthHandler {
	return &HealthHandler{db: db, redisClient: redisClient, mailBreaker: mailBreaker}
}

// ComponentHealth is one entry in the health report.
type ComponentHealth struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// HealthReport is the payload of GET /api/v1/health.
type HealthReport struct {
	Status    string                     `json:"status"`
	Version   string                     `json:"version"`
	Timestamp time.Time                  `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// HealthCheck probes the database, the revocation store and the mail
// circuit and reports each component individually.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	report := HealthReport{
		Status:    statusUp,
		Version:   constants.AppVersion,
		Timestamp: time.Now(),
		Checks: map[string]ComponentHealth{
			"database": h.probeDatabase(ctx),
			"redis":    h.probeRedis(ctx),
			"mail":     h.probeMail(),
		},
	}

	code := http.StatusOK
	if report.Checks["database"].Status == statusDown {
		report.Status = statusDown
		code = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health report served",
		zap.String("status", report.Status),
		zap.Int("code", code),
	)

	c.JSON(code, report)
}

// BasicHealth serves the unversioned health route load balancers point at.
func (h *HealthHandler) BasicHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    statusUp,
		"version":   constants.AppVersion,
		"timestamp": time.Now(),
	})
}

// Ping answers liveness probes without touching any dependency.
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func (h *HealthHandler) probeDatabase(ctx context.Context) ComponentHealth {
	if h.db == nil {
		return ComponentHealth{Status: statusDown, Detail: "connection not initialized"}
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.GetLogger().Error("Database health probe failed", zap.Error(err))
		return ComponentHealth{Status: statusDown, Detail: err.Error()}
	}

	stats := sqlDB.Stats()
	return ComponentHealth{
		Status: statusUp,
		Detail: fmt.Sprintf("%d open / %d idle connections", stats.OpenConnections, stats.Idle),
	}
}

func (h *HealthHandler) probeRedis(ctx context.Context) ComponentHealth {
	if h.redisClient == nil || !h.redisClient.IsEnabled() {
		return ComponentHealth{Status: statusDisabled, Detail: "revocation checks fail open"}
	}

	if err := h.redisClient.Ping(ctx); err != nil {
		logger.GetLogger().Warn("Revocation store health probe failed", zap.Error(err))
		return ComponentHealth{Status: statusDown, Detail: err.Error()}
	}

	return ComponentHealth{Status: statusUp}
}

func (h *HealthHandler) probeMail() ComponentHealth {
	switch {
	case h.mailBreaker == nil:
		return ComponentHealth{Status: statusDisabled, Detail: "mail delivery not configured"}
	case h.mailBreaker.IsOpen():
		logger.GetLogger().Warn("Mail circuit open", zap.Any("breaker", h.mailBreaker.Stats()))
		return ComponentHealth{Status: statusDegraded, Detail: "mail circuit open, activation emails are being dropped"}
	default:
		return ComponentHealth{Status: statusUp, Detail: "mail circuit " + h.mailBreaker.State().String()}
	}
}
