package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/inventory"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
	"github.com/jhoicas/inventario-consola/pkg/coerce"
)

// DefaultAlertFeedSize alertas push que se conservan.
const DefaultAlertFeedSize = 50

// AlertUseCase alertas de inventario: derivadas del stock actual más las
// últimas recibidas por el canal push.
type AlertUseCase struct {
	products repository.ProductRepository
	log      zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	feed  []entity.Alert // más reciente al final
	limit int
}

// NewAlertUseCase construye el caso de uso. limit <= 0 usa DefaultAlertFeedSize.
func NewAlertUseCase(products repository.ProductRepository, limit int, log zerolog.Logger) *AlertUseCase {
	if limit <= 0 {
		limit = DefaultAlertFeedSize
	}
	return &AlertUseCase{products: products, log: log, now: time.Now, limit: limit}
}

// List alertas push (más recientes primero) seguidas de las derivadas del stock.
// Si los productos no cargan se devuelven solo las push.
func (uc *AlertUseCase) List(ctx context.Context) *dto.AlertListResponse {
	items := uc.recent()
	products, err := uc.products.List(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron derivar alertas de stock")
	} else {
		items = append(items, uc.derive(products)...)
	}
	resp := &dto.AlertListResponse{Items: items}
	for _, a := range items {
		if a.Estado == entity.AlertStateActiva {
			resp.Activas++
		}
	}
	return resp
}

// Ingest decodifica una alerta push y la guarda en el feed acotado.
func (uc *AlertUseCase) Ingest(payload []byte) entity.Alert {
	a := uc.decode(payload)
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.feed = append(uc.feed, a)
	if over := len(uc.feed) - uc.limit; over > 0 {
		uc.feed = append([]entity.Alert(nil), uc.feed[over:]...)
	}
	return a
}

func (uc *AlertUseCase) recent() []entity.Alert {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make([]entity.Alert, 0, len(uc.feed))
	for i := len(uc.feed) - 1; i >= 0; i-- {
		out = append(out, uc.feed[i])
	}
	return out
}

func (uc *AlertUseCase) derive(products []entity.Product) []entity.Alert {
	now := uc.now().UTC()
	var out []entity.Alert
	for _, p := range products {
		var a entity.Alert
		switch inventory.Bucket(p) {
		case inventory.StatusAgotado:
			a = entity.Alert{Severidad: entity.SeverityCritica, Mensaje: fmt.Sprintf("Producto %s agotado", p.Nombre)}
		case inventory.StatusBajo:
			a = entity.Alert{Severidad: entity.SeverityAdvertencia, Mensaje: fmt.Sprintf("Stock bajo en %s (%g de %g)", p.Nombre, p.Stock, p.Minimo)}
		default:
			continue
		}
		a.ID = "stock:" + p.ID
		a.ProductoID = p.ID
		a.Estado = entity.AlertStateActiva
		a.FechaCreacion = now
		out = append(out, a)
	}
	return out
}

type alertWire struct {
	ID            any    `json:"id"`
	Mensaje       string `json:"mensaje"`
	Severidad     string `json:"severidad"`
	Tipo          string `json:"tipo"`
	Estado        string `json:"estado"`
	ProductoID    any    `json:"productoId"`
	FechaCreacion any    `json:"fechaCreacion"`
	Fecha         any    `json:"fecha"`
}

// decode es tolerante: acepta severidad o tipo (warning/error), fechas en
// cualquier forma, y un texto plano como mensaje.
func (uc *AlertUseCase) decode(payload []byte) entity.Alert {
	var w alertWire
	if err := json.Unmarshal(payload, &w); err != nil {
		w = alertWire{Mensaje: strings.TrimSpace(string(payload))}
	}
	a := entity.Alert{
		ID:         scalarString(w.ID),
		Mensaje:    w.Mensaje,
		Severidad:  severity(w.Severidad, w.Tipo),
		Estado:     strings.ToUpper(w.Estado),
		ProductoID: scalarString(w.ProductoID),
	}
	if json.Valid(payload) {
		a.Payload = append(json.RawMessage(nil), payload...)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Estado != entity.AlertStateResuelta {
		a.Estado = entity.AlertStateActiva
	}
	fecha := w.FechaCreacion
	if fecha == nil {
		fecha = w.Fecha
	}
	if t, ok := coerce.ParseDate(fecha); ok {
		a.FechaCreacion = t.UTC()
	} else {
		a.FechaCreacion = uc.now().UTC()
	}
	return a
}

func severity(severidad, tipo string) string {
	switch strings.ToUpper(severidad) {
	case entity.SeverityCritica, entity.SeverityAdvertencia, entity.SeverityInformacion:
		return strings.ToUpper(severidad)
	}
	switch strings.ToLower(tipo) {
	case "error", "danger":
		return entity.SeverityCritica
	case "warning", "warn":
		return entity.SeverityAdvertencia
	}
	return entity.SeverityInformacion
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
