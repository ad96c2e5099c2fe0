package entity

import (
	"bytes"
	"encoding/json"
	"strings"
)

// scalarText normaliza un valor JSON a texto. null o ausente devuelve nil;
// los textos se devuelven sin comillas; números, booleanos y estructuras
// conservan su representación JSON compacta.
func scalarText(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return &s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil
	}
	s := buf.String()
	return &s
}

// looseValue decodifica un valor JSON sin tipar conservando los números como
// json.Number para no perder precisión en identificadores y epochs.
func looseValue(raw json.RawMessage) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// textOf devuelve el texto de un valor o "" si está ausente.
func textOf(raw json.RawMessage) string {
	if s := scalarText(raw); s != nil {
		return strings.TrimSpace(*s)
	}
	return ""
}
