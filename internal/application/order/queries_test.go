package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

func TestGetOrder_DuenoYAdmin(t *testing.T) {
	f := newFixture()
	seedUser(f, "buyer", entity.RoleUser)
	seedMedicine(f, "medA", "Paracetamol", 100, 8, "sup1")
	seedOrder(f, "ord1", "buyer", entity.OrderPending, 1*time.Minute, 2)

	// El dueño ve su orden con las líneas.
	resp, err := f.uc.GetOrder(context.Background(), "ord1", "buyer", entity.RoleUser)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Paracetamol", resp.Items[0].MedicineName)

	// Un admin ve cualquier orden.
	_, err = f.uc.GetOrder(context.Background(), "ord1", "admin", entity.RoleAdmin)
	require.NoError(t, err)

	// Otro comprador no.
	_, err = f.uc.GetOrder(context.Background(), "ord1", "otro", entity.RoleUser)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetOrderForSupplier_SoloLineasPropias(t *testing.T) {
	f := newFixture()
	seedUser(f, "buyer", entity.RoleUser)
	seedMedicine(f, "medA", "Paracetamol", 100, 8, "sup1")
	seedMedicine(f, "medB", "Ibuprofeno", 50, 8, "sup2")
	ord := seedOrder(f, "ord1", "buyer", entity.OrderPending, 1*time.Minute, 2)
	f.store.orderItems[ord.ID] = append(f.store.orderItems[ord.ID], &entity.OrderItem{
		ID:         "ord1-item2",
		OrderID:    "ord1",
		MedicineID: "medB",
		Quantity:   1,
	})

	// sup1 ve la orden filtrada a su única línea.
	resp, err := f.uc.GetOrderForSupplier(context.Background(), "ord1", "sup1")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "medA", resp.Items[0].MedicineID)

	// Un proveedor sin líneas en la orden no tiene acceso.
	_, err = f.uc.GetOrderForSupplier(context.Background(), "ord1", "sup3")
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListByBuyer_PaginaPorDefecto(t *testing.T) {
	f := newFixture()
	seedUser(f, "buyer", entity.RoleUser)
	seedMedicine(f, "medA", "Paracetamol", 100, 8, "sup1")
	seedOrder(f, "ord1", "buyer", entity.OrderPending, 2*time.Minute, 1)
	seedOrder(f, "ord2", "buyer", entity.OrderDelivered, 1*time.Minute, 1)
	seedOrder(f, "ajena", "otro", entity.OrderPending, 1*time.Minute, 1)

	resp, err := f.uc.ListByBuyer(context.Background(), "buyer", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 20, resp.Page.Limit)
}

func TestListBySupplier_OrdenesConLineasPropias(t *testing.T) {
	f := newFixture()
	seedUser(f, "buyer", entity.RoleUser)
	seedMedicine(f, "medA", "Paracetamol", 100, 8, "sup1")
	seedOrder(f, "ord1", "buyer", entity.OrderPending, 1*time.Minute, 2)
	seedOrder(f, "ord2", "buyer", entity.OrderPending, 1*time.Minute, 1)

	resp, err := f.uc.ListBySupplier(context.Background(), "sup1", dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)

	resp, err = f.uc.ListBySupplier(context.Background(), "sup2", dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}
