// Package realtime implementa el canal push: STOMP sobre WebSocket (el broker
// del backend) o Kafka. Ambos adaptadores entregan ports.PushEvent.
package realtime

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Comandos STOMP 1.2 usados por el cliente.
const (
	CmdConnect    = "CONNECT"
	CmdConnected  = "CONNECTED"
	CmdSubscribe  = "SUBSCRIBE"
	CmdDisconnect = "DISCONNECT"
	CmdMessage    = "MESSAGE"
	CmdReceipt    = "RECEIPT"
	CmdError      = "ERROR"
)

// ErrMalformedFrame trama STOMP ilegible.
var ErrMalformedFrame = errors.New("stomp: trama mal formada")

// Frame trama STOMP.
type Frame struct {
	Command string
	Headers map[string]string
	Body    []byte
}

// NewFrame arma una trama con pares clave/valor.
func NewFrame(command string, kv ...string) Frame {
	f := Frame{Command: command, Headers: make(map[string]string, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		f.Headers[kv[i]] = kv[i+1]
	}
	return f
}

// Header devuelve el valor de la cabecera ("" si no está).
func (f Frame) Header(name string) string { return f.Headers[name] }

var (
	headerEscaper   = strings.NewReplacer("\\", "\\\\", "\r", "\\r", "\n", "\\n", ":", "\\c")
	headerUnescaper = strings.NewReplacer("\\\\", "\\", "\\r", "\r", "\\n", "\n", "\\c", ":")
)

// Encode serializa la trama terminada en NUL. CONNECT no escapa cabeceras.
func (f Frame) Encode() []byte {
	var b bytes.Buffer
	b.WriteString(f.Command)
	b.WriteByte('\n')

	keys := make([]string, 0, len(f.Headers))
	for k := range f.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := f.Headers[k]
		if f.Command != CmdConnect {
			k, v = headerEscaper.Replace(k), headerEscaper.Replace(v)
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(v)
		b.WriteByte('\n')
	}
	if len(f.Body) > 0 && f.Headers["content-length"] == "" {
		fmt.Fprintf(&b, "content-length:%d\n", len(f.Body))
	}
	b.WriteByte('\n')
	b.Write(f.Body)
	b.WriteByte(0)
	return b.Bytes()
}

// DecodeAll separa un mensaje del WebSocket en tramas. Los latidos (líneas
// vacías) se descartan.
func DecodeAll(data []byte) ([]Frame, error) {
	var frames []Frame
	for {
		data = bytes.TrimLeft(data, "\r\n")
		if len(data) == 0 {
			return frames, nil
		}
		f, rest, err := decodeOne(data)
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
		data = rest
	}
}

func decodeOne(data []byte) (Frame, []byte, error) {
	headEnd := bytes.Index(data, []byte("\n\n"))
	sepLen := 2
	if crlf := bytes.Index(data, []byte("\r\n\r\n")); crlf >= 0 && (headEnd < 0 || crlf < headEnd) {
		headEnd, sepLen = crlf, 4
	}
	if headEnd < 0 {
		return Frame{}, nil, ErrMalformedFrame
	}

	lines := strings.Split(strings.ReplaceAll(string(data[:headEnd]), "\r\n", "\n"), "\n")
	f := Frame{Command: lines[0], Headers: make(map[string]string, len(lines)-1)}
	if f.Command == "" {
		return Frame{}, nil, ErrMalformedFrame
	}
	for _, line := range lines[1:] {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			return Frame{}, nil, fmt.Errorf("%w: cabecera %q", ErrMalformedFrame, line)
		}
		k, v = headerUnescaper.Replace(k), headerUnescaper.Replace(v)
		if _, dup := f.Headers[k]; !dup { // gana la primera aparición
			f.Headers[k] = v
		}
	}

	body := data[headEnd+sepLen:]
	end := bytes.IndexByte(body, 0)
	if n, ok := contentLength(f.Headers); ok {
		if n >= len(body) || body[n] != 0 {
			return Frame{}, nil, fmt.Errorf("%w: content-length %d", ErrMalformedFrame, n)
		}
		end = n
	}
	if end < 0 {
		return Frame{}, nil, fmt.Errorf("%w: falta NUL", ErrMalformedFrame)
	}
	f.Body = append([]byte(nil), body[:end]...)
	return f, body[end+1:], nil
}

func contentLength(h map[string]string) (int, bool) {
	v, ok := h["content-length"]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
