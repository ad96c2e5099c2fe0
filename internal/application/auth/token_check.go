package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventario-consola/internal/application/ports"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

// DefaultTokenCheckTTL tiempo que se recuerda un token aceptado por el backend.
const DefaultTokenCheckTTL = time.Minute

const maxCheckedTokens = 1024

// BackendTokenCheck confirma contra el backend los tokens que la consola no
// puede verificar (sin JWT_SECRET). Usa /dashboard/resumen: es barato y exige
// autenticación. Los tokens aceptados se recuerdan ttl.
type BackendTokenCheck struct {
	summary repository.DashboardRepository
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	accepted map[string]time.Time // token -> vence
}

// NewBackendTokenCheck construye el verificador. ttl <= 0 usa DefaultTokenCheckTTL.
func NewBackendTokenCheck(summary repository.DashboardRepository, ttl time.Duration) *BackendTokenCheck {
	if ttl <= 0 {
		ttl = DefaultTokenCheckTTL
	}
	return &BackendTokenCheck{summary: summary, ttl: ttl, now: time.Now, accepted: make(map[string]time.Time)}
}

// Verify devuelve nil si el backend acepta token. Los rechazos llegan como
// domain.ErrUnauthorized o domain.ErrForbidden.
func (c *BackendTokenCheck) Verify(ctx context.Context, token string) error {
	now := c.now()
	c.mu.Lock()
	exp, ok := c.accepted[token]
	c.mu.Unlock()
	if ok && now.Before(exp) {
		return nil
	}

	if _, err := c.summary.Resumen(ports.WithToken(ctx, token)); err != nil {
		c.mu.Lock()
		delete(c.accepted, token)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.accepted) >= maxCheckedTokens {
		for k, v := range c.accepted {
			if !now.Before(v) {
				delete(c.accepted, k)
			}
		}
		if len(c.accepted) >= maxCheckedTokens {
			c.accepted = make(map[string]time.Time)
		}
	}
	c.accepted[token] = now.Add(c.ttl)
	return nil
}
