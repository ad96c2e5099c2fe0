// Package coerce convierte valores arbitrarios del backend (JSON sin tipar) a
// números y fechas sin fallar nunca: lo que no se puede interpretar se
// reemplaza por un valor seguro.
package coerce

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// DayLayout es el formato ISO de día (YYYY-MM-DD) usado como clave de agrupación.
const DayLayout = "2006-01-02"

// shortDateLayout etiqueta corta para ejes de gráficas, ej: "Jan 02".
const shortDateLayout = "Jan 02"

// ToNumber devuelve la conversión numérica de v si es finita; en otro caso def.
// nil, objetos, arreglos y textos no numéricos devuelven def. El texto vacío vale 0.
func ToNumber(v any, def float64) float64 {
	var (
		n   float64
		err error
	)
	switch x := v.(type) {
	case nil:
		return def
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		n, err = cast.ToFloat64E(s)
	case json.Number:
		n, err = x.Float64()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		n, err = cast.ToFloat64E(x)
	default:
		return def
	}
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return def
	}
	return n
}

// ParseDate interpreta v como fecha. Acepta time.Time, texto ISO-8601 (sin zona
// se asume UTC), números como epoch en milisegundos y objetos con los campos
// numéricos year, monthValue (1-12) y dayOfMonth. Cualquier otra forma devuelve false.
func ParseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case map[string]any:
		return fromLocalDate(x)
	case json.Number, int, int32, int64, float32, float64:
		ms := ToNumber(x, math.NaN())
		if math.IsNaN(ms) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).UTC(), true
	default:
		return time.Time{}, false
	}
}

// fromLocalDate reconstruye la forma {year, monthValue, dayOfMonth}.
func fromLocalDate(m map[string]any) (time.Time, bool) {
	year := ToNumber(m["year"], math.NaN())
	month := ToNumber(m["monthValue"], math.NaN())
	day := ToNumber(m["dayOfMonth"], math.NaN())
	if math.IsNaN(year) || math.IsNaN(month) || math.IsNaN(day) {
		return time.Time{}, false
	}
	return time.Date(int(year), time.Month(int(month)), int(day), 0, 0, 0, 0, time.UTC), true
}

// DayKey trunca t al día en UTC con formato YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// FormatShortDate convierte "2024-01-05" en "Jan 05". Si no es una fecha ISO
// devuelve el texto original.
func FormatShortDate(iso string) string {
	t, err := time.Parse(DayLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format(shortDateLayout)
}
