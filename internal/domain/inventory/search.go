package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
)

// fold normaliza para búsqueda: sin tildes y sin distinguir mayúsculas.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.TrimSpace(out))
}

// MatchesTerm indica si el término aparece en el nombre o la categoría del
// producto. Un término vacío coincide con todo.
func MatchesTerm(p entity.Product, term string) bool {
	term = fold(term)
	if term == "" {
		return true
	}
	return strings.Contains(fold(p.Nombre), term) || strings.Contains(fold(p.Categoria), term)
}

// FilterProducts aplica MatchesTerm a una lista.
func FilterProducts(products []entity.Product, term string) []entity.Product {
	if fold(term) == "" {
		return products
	}
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if MatchesTerm(p, term) {
			out = append(out, p)
		}
	}
	return out
}
