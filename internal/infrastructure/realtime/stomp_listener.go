package realtime

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-consola/internal/application/ports"
)

var _ ports.PushListener = (*StompListener)(nil)

// StompConfig conexión al broker STOMP del backend.
type StompConfig struct {
	URL          string // ej: ws://localhost:8080/ws/websocket
	ProductTopic string
	AlertTopic   string
	Token        string // opcional; se envía en el handshake y en CONNECT
	MaxBackoff   time.Duration
	// HeartBeat intervalo de latidos que se ofrece al broker. Si el broker no
	// los acepta se usan pings del WebSocket con el mismo intervalo.
	HeartBeat time.Duration
}

// DefaultHeartBeat intervalo de latidos por defecto.
const DefaultHeartBeat = 10 * time.Second

const connectTimeout = 10 * time.Second

// StompListener cliente STOMP sobre WebSocket. Se reconecta con espera
// exponencial hasta que el contexto se cancela.
type StompListener struct {
	cfg    StompConfig
	topics map[string]string // destino -> tipo de evento
	dialer *websocket.Dialer
	log    zerolog.Logger
}

// NewStompListener construye el listener.
func NewStompListener(cfg StompConfig, log zerolog.Logger) *StompListener {
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.HeartBeat <= 0 {
		cfg.HeartBeat = DefaultHeartBeat
	}
	return &StompListener{
		cfg:    cfg,
		topics: topicKinds(cfg.ProductTopic, cfg.AlertTopic),
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:    log,
	}
}

// Run mantiene la suscripción viva. Devuelve nil cuando ctx se cancela.
func (l *StompListener) Run(ctx context.Context, handle ports.PushHandler) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = min(500*time.Millisecond, l.cfg.MaxBackoff)
	b.MaxInterval = l.cfg.MaxBackoff
	b.MaxElapsedTime = 0

	op := func() error {
		err := l.session(ctx, handle, b.Reset)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		l.log.Warn().Err(err).Dur("reintento_en", wait).Msg("stomp: conexión perdida")
	}

	err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// session una conexión completa: handshake, CONNECT, SUBSCRIBE y lectura.
// Siempre devuelve error (la conexión terminó por algún motivo).
func (l *StompListener) session(ctx context.Context, handle ports.PushHandler, connected func()) error {
	header := http.Header{}
	if l.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+l.cfg.Token)
	}
	conn, _, err := l.dialer.DialContext(ctx, l.cfg.URL, header)
	if err != nil {
		return fmt.Errorf("stomp: conectar %s: %w", l.cfg.URL, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	fr := &frameReader{conn: conn, log: l.log, idle: connectTimeout}

	hb := strconv.FormatInt(l.cfg.HeartBeat.Milliseconds(), 10)
	connect := NewFrame(CmdConnect, "accept-version", "1.2", "host", hostOf(l.cfg.URL), "heart-beat", hb+","+hb)
	if l.cfg.Token != "" {
		connect.Headers["Authorization"] = "Bearer " + l.cfg.Token
	}
	if err := conn.WriteMessage(websocket.TextMessage, connect.Encode()); err != nil {
		return fmt.Errorf("stomp: enviar CONNECT: %w", err)
	}
	first, err := fr.next()
	if err != nil {
		return err
	}
	switch first.Command {
	case CmdConnected:
	case CmdError:
		return fmt.Errorf("stomp: broker rechazó la conexión: %s", first.Header("message"))
	default:
		return fmt.Errorf("stomp: se esperaba CONNECTED, llegó %s", first.Command)
	}
	connected()

	// Sin lectura en idle la conexión se da por muerta (TCP medio abierto).
	sendEvery, recvEvery := negotiateHeartBeat(l.cfg.HeartBeat, first.Header("heart-beat"))
	ping := recvEvery == 0
	if ping {
		sendEvery = l.cfg.HeartBeat
		fr.idle = 3 * l.cfg.HeartBeat
	} else {
		fr.idle = 2 * recvEvery
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(fr.idle))
	})

	subs := make(map[string]string, len(l.topics)) // id -> destino
	for _, dest := range sortedKeys(l.topics) {
		id := uuid.NewString()
		sub := NewFrame(CmdSubscribe, "id", id, "destination", dest, "ack", "auto")
		if err := conn.WriteMessage(websocket.TextMessage, sub.Encode()); err != nil {
			return fmt.Errorf("stomp: suscribir %s: %w", dest, err)
		}
		subs[id] = dest
	}
	l.log.Info().Str("url", l.cfg.URL).Int("suscripciones", len(subs)).
		Dur("latido", sendEvery).Bool("ping_ws", ping).Msg("stomp: conectado")

	beatCtx, stopBeats := context.WithCancel(ctx)
	defer stopBeats()
	if sendEvery > 0 {
		go keepAlive(beatCtx, conn, sendEvery, ping)
	}

	for {
		f, err := fr.next()
		if err != nil {
			return err
		}
		switch f.Command {
		case CmdMessage:
			dest := f.Header("destination")
			if dest == "" {
				dest = subs[f.Header("subscription")]
			}
			kind, ok := l.topics[dest]
			if !ok {
				l.log.Debug().Str("destino", dest).Msg("stomp: mensaje de destino desconocido")
				continue
			}
			handle(ctx, ports.PushEvent{Kind: kind, Topic: dest, Payload: f.Body, ReceivedAt: time.Now().UTC()})
		case CmdError:
			return fmt.Errorf("stomp: error del broker: %s", f.Header("message"))
		}
	}
}

// keepAlive envía un latido STOMP (fin de línea) o un ping del WebSocket cada
// every hasta que ctx termina o falla la escritura. Después de las
// suscripciones es el único que escribe en conn.
func keepAlive(ctx context.Context, conn *websocket.Conn, every time.Duration, ping bool) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		var err error
		if ping {
			err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(every))
		} else {
			err = conn.WriteMessage(websocket.TextMessage, []byte("\n"))
		}
		if err != nil {
			return
		}
	}
}

// negotiateHeartBeat aplica la regla de STOMP 1.2: cada sentido usa el mayor
// de los dos valores, o 0 si alguno de los lados no lo quiere.
func negotiateHeartBeat(offered time.Duration, header string) (send, recv time.Duration) {
	sx, sy, ok := strings.Cut(header, ",")
	if !ok {
		return 0, 0
	}
	serverSend, err1 := strconv.ParseInt(strings.TrimSpace(sx), 10, 64)
	serverWants, err2 := strconv.ParseInt(strings.TrimSpace(sy), 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	pick := func(ms int64) time.Duration {
		if ms <= 0 || offered <= 0 {
			return 0
		}
		return max(offered, time.Duration(ms)*time.Millisecond)
	}
	return pick(serverWants), pick(serverSend)
}

// frameReader entrega tramas de a una aunque el broker agrupe varias en un
// mismo mensaje del WebSocket. Cada lectura tiene plazo idle; los latidos
// vacíos renuevan el plazo.
type frameReader struct {
	conn    *websocket.Conn
	log     zerolog.Logger
	idle    time.Duration
	pending []Frame
}

func (r *frameReader) next() (Frame, error) {
	for len(r.pending) == 0 {
		if r.idle > 0 {
			if err := r.conn.SetReadDeadline(time.Now().Add(r.idle)); err != nil {
				return Frame{}, fmt.Errorf("stomp: plazo de lectura: %w", err)
			}
		}
		_, data, err := r.conn.ReadMessage()
		if err != nil {
			return Frame{}, fmt.Errorf("stomp: leer: %w", err)
		}
		frames, err := DecodeAll(data)
		if err != nil {
			r.log.Warn().Err(err).Int("bytes", len(data)).Msg("stomp: trama descartada")
		}
		r.pending = frames
	}
	f := r.pending[0]
	r.pending = r.pending[1:]
	return f, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "localhost"
	}
	return u.Hostname()
}

// topicKinds relaciona cada destino configurado con su tipo de evento.
func topicKinds(productTopic, alertTopic string) map[string]string {
	m := make(map[string]string, 2)
	if productTopic != "" {
		m[productTopic] = ports.PushProducto
	}
	if alertTopic != "" {
		m[alertTopic] = ports.PushAlerta
	}
	return m
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
