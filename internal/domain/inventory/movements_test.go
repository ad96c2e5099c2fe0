package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/inventory"
)

func TestResolveProducts(t *testing.T) {
	products := []entity.Product{
		{ID: "1", Nombre: "Martillo", SKU: "MAR-1"},
		{ID: "2", Nombre: "Cincel"},
	}
	movements := []entity.Movement{
		{ProductoID: str("1")},
		{Producto: &entity.ProductRef{ID: "2"}},
		{ProductoID: str("99")},
		{Producto: &entity.ProductRef{ID: "1", Nombre: "Nombre propio"}},
	}

	got := inventory.ResolveProducts(movements, products)

	require.Len(t, got, 4)
	assert.Equal(t, &entity.ProductRef{ID: "1", Nombre: "Martillo", SKU: "MAR-1"}, got[0].Producto)
	assert.Equal(t, "Cincel", got[1].Producto.Nombre)
	assert.Equal(t, inventory.UnknownProductName, got[2].Producto.Nombre)
	assert.Equal(t, "Nombre propio", got[3].Producto.Nombre)

	assert.Nil(t, movements[0].Producto, "la entrada no se modifica")
	assert.Equal(t, "2", movements[1].Producto.ID)
	assert.Empty(t, movements[1].Producto.Nombre)
}

func TestFilterMovements(t *testing.T) {
	movements := []entity.Movement{
		{Producto: &entity.ProductRef{Nombre: "Pintura Acrílica"}},
		{ProductoNombre: "Brocha"},
		{Producto: &entity.ProductRef{SKU: "ACR-22"}},
	}

	assert.Len(t, inventory.FilterMovements(movements, ""), 3)

	got := inventory.FilterMovements(movements, "acrilica")
	require.Len(t, got, 1)
	assert.Equal(t, "Pintura Acrílica", got[0].Producto.Nombre)

	got = inventory.FilterMovements(movements, "  BROCHA ")
	require.Len(t, got, 1)
	assert.Equal(t, "Brocha", got[0].ProductoNombre)

	assert.Len(t, inventory.FilterMovements(movements, "acr"), 2)
}
