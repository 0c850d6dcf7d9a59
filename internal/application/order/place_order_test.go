package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de datos de prueba
// ──────────────────────────────────────────────────────────────────────────────

func seedUser(f *fixture, id, role string) *entity.User {
	u := &entity.User{
		ID:       id,
		Email:    id + "@test.local",
		FullName: "Usuario " + id,
		Role:     role,
		Verified: true,
	}
	f.store.users[id] = u
	return u
}

func seedMedicine(f *fixture, id, name string, price int64, stock int, supplierID string) *entity.Medicine {
	m := &entity.Medicine{
		ID:            id,
		Name:          name,
		UnitPrice:     decimal.NewFromInt(price),
		CurrentStock:  stock,
		MinStockLevel: 2,
		BatchNumber:   "LOTE-" + id,
		SupplierID:    supplierID,
	}
	m.RecomputeStatus()
	f.store.medicines[id] = m
	return m
}

func seedCartLine(f *fixture, userID, medicineID string, qty int) {
	f.store.cart[userID] = append(f.store.cart[userID], &entity.CartItem{
		ID:         "cart-" + userID + "-" + medicineID,
		UserID:     userID,
		MedicineID: medicineID,
		Quantity:   qty,
		CreatedAt:  time.Now(),
	})
}

func placeReq(address string) dto.PlaceOrderRequest {
	return dto.PlaceOrderRequest{
		FullName:      "Comprador de Prueba",
		Address:       address,
		PhoneNumber:   "9800000000",
		PaymentMethod: "CASH_ON_DELIVERY",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

func TestPlaceOrder_CheckoutCompleto(t *testing.T) {
	f := newFixture()
	seedUser(f, "buyer", entity.RoleUser)
	seedUser(f, "admin", entity.RoleAdmin)
	seedMedicine(f, "medA", "Paracetamol", 100, 10, "sup1")
	seedMedicine(f, "medB", "Ibuprofeno", 50, 5, "sup1")
	seedCartLine(f, "buyer", "medA", 2)
	seedCartLine(f, "buyer", "medB", 1)

	resp, err := f.uc.PlaceOrder(context.Background(), "buyer", placeReq("Kathmandu"))
	require.NoError(t, err)
	require.NotNil(t, resp)

	// Totales: subtotal 2×100 + 1×50 = 250, entrega zona valle = 100.
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(250)), "subtotal = %s", resp.Subtotal)
	assert.True(t, resp.DeliveryCharge.Equal(decimal.NewFromInt(100)), "entrega = %s", resp.DeliveryCharge)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(350)), "total = %s", resp.TotalAmount)
	assert.Equal(t, string(entity.OrderPending), resp.Status)
	require.Len(t, resp.Items, 2)

	// Stock debitado por línea.
	assert.Equal(t, 8, f.store.medicines["medA"].CurrentStock)
	assert.Equal(t, 4, f.store.medicines["medB"].CurrentStock)

	// El carrito quedó vacío en la misma transacción.
	assert.Empty(t, f.store.cart["buyer"])

	// Orden y líneas persistidas.
	require.Len(t, f.store.orders, 1)
	assert.Len(t, f.store.orderItems[resp.ID], 2)

	// Confirmación al comprador y alerta al administrador.
	require.Len(t, f.notifier.byKind("confirmation"), 1)
	assert.Equal(t, "buyer@test.local", f.notifier.byKind("confirmation")[0].email)
	require.Len(t, f.notifier.byKind("new_order_alert"), 1)
	assert.Equal(t, "admin@test.local", f.notifier.byKind("new_order_alert")[0].email)
}

func TestPlaceOrder_CarritoVacio(t *testing.T) {
	f := newFixture()
	seedUser(f, "buyer", entity.RoleUser)

	resp, err := f.uc.PlaceOrder(context.Background(), "buyer", placeReq("Kathmandu"))
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Nil(t, resp)
	assert.Empty(t, f.store.orders)
	assert.Empty(t, f.notifier.calls)
}

func TestPlaceOrder_CompradorInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.uc.PlaceOrder(context.Background(), "fantasma", placeReq("Kathmandu"))
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestPlaceOrder_StockInsuficienteSinDebitosParciales(t *testing.T) {
	f := newFixture()
	seedUser(f, "buyer", entity.RoleUser)
	seedMedicine(f, "medA", "Paracetamol", 100, 10, "sup1")
	seedMedicine(f, "medB", "Ibuprofeno", 50, 1, "sup1")
	// medA alcanza; medB no. El débito de medA ocurre primero y debe revertirse.
	seedCartLine(f, "buyer", "medA", 2)
	seedCartLine(f, "buyer", "medB", 3)

	_, err := f.uc.PlaceOrder(context.Background(), "buyer", placeReq("Pokhara"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback completo: ni débitos parciales, ni orden, ni carrito vaciado.
	assert.Equal(t, 10, f.store.medicines["medA"].CurrentStock)
	assert.Equal(t, 1, f.store.medicines["medB"].CurrentStock)
	assert.Empty(t, f.store.orders)
	assert.Len(t, f.store.cart["buyer"], 2)
	assert.Empty(t, f.notifier.calls)
}

func TestPlaceOrder_SnapshotDePrecioInmuneAlCatalogo(t *testing.T) {
	f := newFixture()
	seedUser(f, "buyer", entity.RoleUser)
	seedMedicine(f, "medA", "Paracetamol", 100, 10, "sup1")
	seedCartLine(f, "buyer", "medA", 1)

	resp, err := f.uc.PlaceOrder(context.Background(), "buyer", placeReq(""))
	require.NoError(t, err)

	// El proveedor sube el precio después del checkout.
	f.store.medicines["medA"].UnitPrice = decimal.NewFromInt(999)

	items := f.store.orderItems[resp.ID]
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, items[0].Subtotal.Equal(decimal.NewFromInt(100)))
}

func TestPlaceOrder_FalloDeNotificacionNoRevierte(t *testing.T) {
	f := newFixture()
	f.notifier.fail = true
	seedUser(f, "buyer", entity.RoleUser)
	seedMedicine(f, "medA", "Paracetamol", 100, 10, "sup1")
	seedCartLine(f, "buyer", "medA", 1)

	resp, err := f.uc.PlaceOrder(context.Background(), "buyer", placeReq("Kathmandu"))
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Len(t, f.store.orders, 1)
	assert.Equal(t, 9, f.store.medicines["medA"].CurrentStock)
}

func TestPlaceOrder_DebitoRecalculaEstadoDelMedicamento(t *testing.T) {
	f := newFixture()
	seedUser(f, "buyer", entity.RoleUser)
	seedMedicine(f, "medA", "Paracetamol", 100, 3, "sup1") // min_stock_level = 2

	seedCartLine(f, "buyer", "medA", 3)
	_, err := f.uc.PlaceOrder(context.Background(), "buyer", placeReq("Kathmandu"))
	require.NoError(t, err)
	assert.Equal(t, entity.MedicineOutOfStock, f.store.medicines["medA"].Status)
}
