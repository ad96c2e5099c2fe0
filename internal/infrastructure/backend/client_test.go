package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-consola/internal/application/ports"
	"github.com/jhoicas/inventario-consola/internal/domain"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
	"github.com/jhoicas/inventario-consola/internal/infrastructure/backend"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type ctxCreds struct{}

func (ctxCreds) Token(ctx context.Context) (string, bool) { return ports.TokenFrom(ctx) }

func newClient(t *testing.T, h http.HandlerFunc, breaker *backend.Breaker) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return backend.New(backend.Config{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second}, ctxCreds{}, breaker, nil, zerolog.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Cabeceras
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_BearerSoloConToken(t *testing.T) {
	var gotAuth, gotReqID atomic.Value
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		gotReqID.Store(r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{}`))
	}, nil)
	dash := backend.NewDashboardClient(c)

	_, err := dash.Resumen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", gotAuth.Load(), "sin token no se envía Authorization")

	ctx := ports.WithRequestID(ports.WithToken(context.Background(), "abc"), "req-1")
	_, err = dash.Resumen(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth.Load())
	assert.Equal(t, "req-1", gotReqID.Load())
}

// ──────────────────────────────────────────────────────────────────────────────
// Decodificación
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementClient_ListPage_AmbasFormas(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/movimientos", r.URL.Path)
		if r.URL.Query().Get("page") == "0" {
			_, _ = w.Write([]byte(`{"content":[{"id":1,"tipo":"entrada","cantidad":"3"}],"totalElements":2,"size":1,"number":0}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":2,"tipo":"SALIDA","cantidad":1}]`))
	}, nil)
	movs := backend.NewMovementClient(c)

	p0, err := movs.ListPage(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.True(t, p0.Envelope)
	require.Len(t, p0.Items, 1)
	assert.Equal(t, "1", *p0.Items[0].ID)
	assert.Equal(t, "ENTRADA", p0.Items[0].Tipo)
	assert.Equal(t, 3.0, p0.Items[0].Cantidad)
	assert.Equal(t, 2, *p0.TotalElements)

	p1, err := movs.ListPage(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.False(t, p1.Envelope)
	require.Len(t, p1.Items, 1)
}

func TestProductClient_List_Sobre(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":"p1","nombre":"Lápiz","stock":"4","minimo":5,"precio":1500}]}`))
	}, nil)

	items, err := backend.NewProductClient(c).List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4.0, items[0].Stock)
	assert.Equal(t, "1500", items[0].PrecioUnitario.String())
}

func TestProductClient_UpdateUsaPatch(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/productos/p%201", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"id":"p 1","nombre":"Nuevo"}`))
	}, nil)

	out, err := backend.NewProductClient(c).Update(context.Background(), "p 1", map[string]any{"nombre": "Nuevo"})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", out.Nombre)
}

func TestAuthClient_LoginSinToken(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"mensaje":"ok"}`))
	}, nil)

	_, err := backend.NewAuthClient(c).Login(context.Background(), repository.Credentials{NombreUsuario: "a", Password: "b"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthClient_RegisterRespuestaTexto(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`Usuario registrado`))
	}, nil)

	u, err := backend.NewAuthClient(c).Register(context.Background(), repository.Registration{NombreUsuario: "ana", Password: "secreto", Roles: "OPERADOR"})
	require.NoError(t, err)
	assert.Equal(t, "ana", u.NombreUsuario)
	assert.Equal(t, "OPERADOR", u.Rol)
}

func TestReportClient_AcceptSegunFormato(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, backend.MimeExcel, r.Header.Get("Accept"))
		w.Header().Set("Content-Type", backend.MimeExcel)
		w.Header().Set("Content-Disposition", `attachment; filename="inventario.xlsx"`)
		_, _ = w.Write([]byte("PK"))
	}, nil)

	f, err := backend.NewReportClient(c).Download(context.Background(), "inventario", "excel")
	require.NoError(t, err)
	assert.Equal(t, "inventario.xlsx", f.Filename)
	assert.Equal(t, []byte("PK"), f.Data)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores y breaker
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_MapeaCodigos(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusUnprocessableEntity, domain.ErrInvalidInput},
		{http.StatusConflict, domain.ErrConflict},
		{http.StatusBadGateway, domain.ErrBackendUnavailable},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}, nil)
			_, err := backend.NewProductClient(c).GetByID(context.Background(), "x")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBreaker_AbreTrasFallosConsecutivos(t *testing.T) {
	var hits atomic.Int32
	breaker := backend.NewBreaker(backend.BreakerConfig{Name: "test", FailureThreshold: 2, OpenTimeout: time.Minute}, zerolog.Nop(), nil)
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, breaker)
	dash := backend.NewDashboardClient(c)

	for i := 0; i < 2; i++ {
		_, err := dash.Resumen(context.Background())
		require.Error(t, err)
	}
	_, err := dash.Resumen(context.Background())

	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.True(t, backend.IsUnavailable(err))
	assert.Equal(t, int32(2), hits.Load(), "con el breaker abierto no se llama al backend")
}

func TestBreaker_Errores4xxNoAbren(t *testing.T) {
	var hits atomic.Int32
	breaker := backend.NewBreaker(backend.BreakerConfig{Name: "test", FailureThreshold: 1, OpenTimeout: time.Minute}, zerolog.Nop(), nil)
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, breaker)
	products := backend.NewProductClient(c)

	for i := 0; i < 3; i++ {
		_, err := products.GetByID(context.Background(), "x")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_TimeoutPorPeticion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	c := backend.New(backend.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil, nil, nil, zerolog.Nop())

	_, err := backend.NewDashboardClient(c).Resumen(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBreaker_CancelacionDelLlamadorNoAbre(t *testing.T) {
	var hits atomic.Int32
	breaker := backend.NewBreaker(backend.BreakerConfig{Name: "test", FailureThreshold: 2, OpenTimeout: time.Minute}, zerolog.Nop(), nil)
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-time.After(50 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}, breaker)
	dash := backend.NewDashboardClient(c)

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := dash.Resumen(ctx)
		cancel()
		require.Error(t, err)
		assert.False(t, backend.IsUnavailable(err), "la cancelación no es backend caído")
	}
	assert.Equal(t, gobreaker.StateClosed, breaker.State())

	_, err := dash.Resumen(context.Background())
	require.NoError(t, err)
	assert.Positive(t, hits.Load())
}

func TestBreaker_TimeoutPropioSiCuenta(t *testing.T) {
	breaker := backend.NewBreaker(backend.BreakerConfig{Name: "test", FailureThreshold: 1, OpenTimeout: time.Minute}, zerolog.Nop(), nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	c := backend.New(backend.Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, nil, breaker, nil, zerolog.Nop())
	dash := backend.NewDashboardClient(c)

	_, err := dash.Resumen(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, gobreaker.StateOpen, breaker.State())

	_, err = dash.Resumen(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}
