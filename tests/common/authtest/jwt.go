//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) Service(t *testing.T) *jwt.Service {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	return jwt.NewService(h.cfg.Secret, duration)
}

func (h *JWTHelper) GenerateToken(t *testing.T, actor user.Actor) string {
	t.Helper()
	token, err := h.Service(t).GenerateToken(actor)
	require.NoError(t, err)
	return token
}

// CreateExpiredToken signs a token that expired a minute ago.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, actor user.Actor) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, -time.Minute).GenerateToken(actor)
	require.NoError(t, err)
	return token
}

// NewStaffActor returns a STAFF actor of a fresh business.
func NewStaffActor(t *testing.T) user.Actor {
	t.Helper()
	actor, err := user.NewActor(uuid.New(), uuid.New(), user.RoleStaff.String())
	require.NoError(t, err)
	return actor
}
