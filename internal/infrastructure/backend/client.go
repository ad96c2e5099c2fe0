// Package backend es el adaptador REST hacia la API de inventario. Implementa
// los puertos de internal/domain/repository con net/http, un circuit breaker
// y un timeout por petición.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-consola/internal/application/ports"
	"github.com/jhoicas/inventario-consola/internal/domain"
)

const (
	maxBodyBytes  = 32 << 20 // descargas de reportes incluidas
	maxErrorBytes = 2 << 10
	headerReqID   = "X-Request-ID"
)

// RequestObserver recibe la duración y el código de cada llamada (métricas).
type RequestObserver interface {
	ObserveRequest(op string, status int, elapsed time.Duration)
}

// Config parámetros del cliente.
type Config struct {
	BaseURL string        // ej: http://localhost:8080/api
	Timeout time.Duration // por petición; 0 = sin límite propio
}

// Client cliente HTTP del backend. Es seguro para uso concurrente.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	creds      ports.CredentialProvider
	breaker    *Breaker
	observer   RequestObserver
	log        zerolog.Logger
}

// New construye el cliente. breaker y observer pueden ser nil.
func New(cfg Config, creds ports.CredentialProvider, breaker *Breaker, observer RequestObserver, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		creds:      creds,
		breaker:    breaker,
		observer:   observer,
		log:        log,
	}
}

type request struct {
	op     string // nombre estable para logs y métricas, ej: "movimientos.page"
	method string
	path   string
	query  url.Values
	body   any
	accept string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// do ejecuta la petición bajo el breaker. Las respuestas no 2xx se devuelven
// como *StatusError.
func (c *Client) do(ctx context.Context, r request) (*response, error) {
	var out *response
	call := func() error {
		resp, err := c.roundTrip(ctx, r)
		out = resp
		return err
	}
	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(ctx, call)
	} else {
		err = call()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) roundTrip(ctx context.Context, r request) (*response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("backend: serializar %s: %w", r.op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("backend: crear request %s: %w", r.op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	accept := r.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	if c.creds != nil {
		if tok, ok := c.creds.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	if id := ports.RequestIDFrom(ctx); id != "" {
		req.Header.Set(headerReqID, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r.op, 0, start)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("backend: %s: timeout o cancelación: %w", r.op, ctxErr)
		}
		return nil, fmt.Errorf("backend: %s: %w: %w", r.op, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	c.observe(r.op, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		c.log.Warn().Str("op", r.op).Int("status", resp.StatusCode).Msg("backend respondió con error")
		return nil, &StatusError{Method: r.method, Path: r.path, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("backend: leer respuesta %s: %w", r.op, err)
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: raw}, nil
}

func (c *Client) observe(op string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(op, status, time.Since(start))
	}
}

// decodeJSON decodifica el cuerpo en out. Un cuerpo vacío deja out intacto y
// devuelve false.
func decodeJSON(op string, body []byte, out any) (bool, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("backend: deserializar %s: %w", op, err)
	}
	return true, nil
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))
	return q
}

// IsUnavailable indica si err proviene de un backend caído o de un breaker abierto.
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrBackendUnavailable)
}
