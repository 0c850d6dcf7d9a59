package inventory_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type syncStore struct {
	users      map[string]*entity.User
	medicines  map[string]*entity.Medicine
	orders     map[string]*entity.Order
	orderItems map[string][]*entity.OrderItem
	inventory  map[string]*entity.PharmacyInventory

	// failCreateName hace fallar invRepo.Create para filas con ese nombre,
	// para simular una orden cuyo sync aborta.
	failCreateName string
}

func newSyncStore() *syncStore {
	return &syncStore{
		users:      make(map[string]*entity.User),
		medicines:  make(map[string]*entity.Medicine),
		orders:     make(map[string]*entity.Order),
		orderItems: make(map[string][]*entity.OrderItem),
		inventory:  make(map[string]*entity.PharmacyInventory),
	}
}

func (s *syncStore) cloneInventory() map[string]*entity.PharmacyInventory {
	c := make(map[string]*entity.PharmacyInventory, len(s.inventory))
	for k, v := range s.inventory {
		cp := *v
		c[k] = &cp
	}
	return c
}

type syncTxRunner struct{ store *syncStore }

func (r *syncTxRunner) RunInventory(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	medicineRepo repository.MedicineRepository,
	invRepo repository.PharmacyInventoryRepository,
) error) error {
	snapshot := r.store.cloneInventory()
	err := fn(&syncOrderRepo{r.store}, &syncMedicineRepo{r.store}, &syncInvRepo{r.store})
	if err != nil {
		r.store.inventory = snapshot
		return err
	}
	return nil
}

type syncUserRepo struct{ store *syncStore }

func (r *syncUserRepo) Create(u *entity.User) error { return nil }
func (r *syncUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
func (r *syncUserRepo) FindByEmail(string) (*entity.User, error) { return nil, nil }
func (r *syncUserRepo) ListAdmins() ([]*entity.User, error)      { return nil, nil }
func (r *syncUserRepo) SetVerified(string) error                 { return nil }

type syncMedicineRepo struct{ store *syncStore }

func (r *syncMedicineRepo) Create(*entity.Medicine) error { return nil }
func (r *syncMedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	m, ok := r.store.medicines[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}
func (r *syncMedicineRepo) GetForUpdate(id string) (*entity.Medicine, error) { return r.GetByID(id) }
func (r *syncMedicineRepo) Update(*entity.Medicine) error                    { return nil }
func (r *syncMedicineRepo) UpdateStock(*entity.Medicine) error               { return nil }
func (r *syncMedicineRepo) Delete(string) error                              { return nil }
func (r *syncMedicineRepo) List(string, string, int, int) ([]*entity.Medicine, error) {
	return nil, nil
}
func (r *syncMedicineRepo) ListBySupplier(string, int, int) ([]*entity.Medicine, error) {
	return nil, nil
}

type syncOrderRepo struct{ store *syncStore }

func (r *syncOrderRepo) Create(*entity.Order) error         { return nil }
func (r *syncOrderRepo) CreateItem(*entity.OrderItem) error { return nil }
func (r *syncOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}
func (r *syncOrderRepo) GetForUpdate(id string) (*entity.Order, error) { return r.GetByID(id) }
func (r *syncOrderRepo) UpdateStatus(*entity.Order) error              { return nil }
func (r *syncOrderRepo) ListByUser(string, int, int) ([]*entity.Order, error) {
	return nil, nil
}
func (r *syncOrderRepo) ListByUserAndStatus(userID string, status entity.OrderStatus) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.store.orders {
		if o.UserID == userID && o.Status == status {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (r *syncOrderRepo) ItemsByOrder(orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	for _, it := range r.store.orderItems[orderID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}
func (r *syncOrderRepo) CountItemsBySupplier(string, string) (int, error) { return 0, nil }
func (r *syncOrderRepo) ItemsByOrderAndSupplier(string, string) ([]*entity.OrderItem, error) {
	return nil, nil
}
func (r *syncOrderRepo) ListBySupplier(string, int, int) ([]*entity.Order, error) {
	return nil, nil
}

type syncInvRepo struct{ store *syncStore }

func (r *syncInvRepo) Create(item *entity.PharmacyInventory) error {
	if r.store.failCreateName != "" && item.Name == r.store.failCreateName {
		return errors.New("fallo simulado de escritura")
	}
	cp := *item
	r.store.inventory[item.ID] = &cp
	return nil
}
func (r *syncInvRepo) GetByID(id string) (*entity.PharmacyInventory, error) {
	it, ok := r.store.inventory[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}
func (r *syncInvRepo) Update(item *entity.PharmacyInventory) error {
	cp := *item
	r.store.inventory[item.ID] = &cp
	return nil
}
func (r *syncInvRepo) UpdateStock(item *entity.PharmacyInventory) error {
	stored, ok := r.store.inventory[item.ID]
	if !ok {
		return errors.New("fila inexistente")
	}
	stored.CurrentStock = item.CurrentStock
	stored.UpdatedAt = item.UpdatedAt
	return nil
}
func (r *syncInvRepo) FindPurchased(pharmacyID, name string, batchNumber *string) (*entity.PharmacyInventory, error) {
	for _, it := range r.store.inventory {
		if it.PharmacyID != pharmacyID || it.Name != name || it.Source != entity.SourcePurchased || !it.Active {
			continue
		}
		if batchEqual(it.BatchNumber, batchNumber) {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}
func batchEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
func (r *syncInvRepo) ListActiveByPharmacy(pharmacyID string) ([]*entity.PharmacyInventory, error) {
	var out []*entity.PharmacyInventory
	for _, it := range r.store.inventory {
		if it.PharmacyID == pharmacyID && it.Active {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *syncInvRepo) listActiveWhere(pharmacyID string, keep func(*entity.PharmacyInventory) bool) ([]*entity.PharmacyInventory, error) {
	var out []*entity.PharmacyInventory
	for _, it := range r.store.inventory {
		if it.PharmacyID == pharmacyID && it.Active && keep(it) {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *syncInvRepo) ListByPharmacyAndCategory(pharmacyID, category string) ([]*entity.PharmacyInventory, error) {
	return r.listActiveWhere(pharmacyID, func(it *entity.PharmacyInventory) bool {
		return it.Category == category
	})
}
func (r *syncInvRepo) ListByPharmacyAndSource(pharmacyID, source string) ([]*entity.PharmacyInventory, error) {
	return r.listActiveWhere(pharmacyID, func(it *entity.PharmacyInventory) bool {
		return it.Source == source
	})
}
func (r *syncInvRepo) ListLowStock(pharmacyID string) ([]*entity.PharmacyInventory, error) {
	return r.listActiveWhere(pharmacyID, func(it *entity.PharmacyInventory) bool {
		return it.CurrentStock <= it.MinStockLevel
	})
}
func (r *syncInvRepo) ListExpiring(pharmacyID string, from, until time.Time) ([]*entity.PharmacyInventory, error) {
	return r.listActiveWhere(pharmacyID, func(it *entity.PharmacyInventory) bool {
		return it.ExpiryDate != nil && !it.ExpiryDate.Before(from) && !it.ExpiryDate.After(until)
	})
}
func (r *syncInvRepo) ListExpired(pharmacyID string, until time.Time) ([]*entity.PharmacyInventory, error) {
	return r.listActiveWhere(pharmacyID, func(it *entity.PharmacyInventory) bool {
		return it.ExpiryDate != nil && it.ExpiryDate.Before(until)
	})
}
func (r *syncInvRepo) CountActiveByPharmacy(pharmacyID string) (int, error) {
	n := 0
	for _, it := range r.store.inventory {
		if it.PharmacyID == pharmacyID && it.Active {
			n++
		}
	}
	return n, nil
}
func (r *syncInvRepo) Deactivate(id string) error {
	if it, ok := r.store.inventory[id]; ok {
		it.Active = false
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

type syncFixture struct {
	store *syncStore
	uc    *inventory.SyncUseCase
}

func newSyncFixture() *syncFixture {
	store := newSyncStore()
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := inventory.NewSyncUseCase(
		&syncTxRunner{store},
		&syncUserRepo{store},
		&syncOrderRepo{store},
		&syncInvRepo{store},
		log,
	)
	return &syncFixture{store: store, uc: uc}
}

func seedPharmacy(f *syncFixture, id string) *entity.User {
	u := &entity.User{ID: id, Email: id + "@test.local", FullName: "Farmacia " + id, Role: entity.RolePharmacy, Verified: true}
	f.store.users[id] = u
	return u
}

func seedCatalogMedicine(f *syncFixture, id, name, batch string) *entity.Medicine {
	m := &entity.Medicine{
		ID:           id,
		Name:         name,
		Category:     "Analgésicos",
		GenericName:  name + " genérico",
		Manufacturer: "Laboratorio X",
		UnitPrice:    decimal.NewFromInt(100),
		BatchNumber:  batch,
		ExpiryDate:   time.Now().AddDate(1, 0, 0),
		SupplierID:   "sup1",
	}
	f.store.medicines[id] = m
	return m
}

func seedDeliveredOrder(f *syncFixture, orderID, buyerID string, lines map[string]int) *entity.Order {
	ord := &entity.Order{ID: orderID, UserID: buyerID, Status: entity.OrderDelivered, CreatedAt: time.Now()}
	f.store.orders[orderID] = ord
	for medID, qty := range lines {
		f.store.orderItems[orderID] = append(f.store.orderItems[orderID], &entity.OrderItem{
			ID:         orderID + "-" + medID,
			OrderID:    orderID,
			MedicineID: medID,
			Quantity:   qty,
			UnitPrice:  decimal.NewFromInt(100),
		})
	}
	return ord
}

func inventoryByName(f *syncFixture, name string) *entity.PharmacyInventory {
	for _, it := range f.store.inventory {
		if it.Name == name {
			return it
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// AddOrderToInventory
// ──────────────────────────────────────────────────────────────────────────────

func TestAddOrderToInventory_CreaFilaPurchasedConTrazabilidad(t *testing.T) {
	f := newSyncFixture()
	seedPharmacy(f, "farm1")
	seedCatalogMedicine(f, "medA", "Paracetamol", "L-001")
	ord := seedDeliveredOrder(f, "ord1", "farm1", map[string]int{"medA": 5})

	require.NoError(t, f.uc.AddOrderToInventory(context.Background(), ord))

	row := inventoryByName(f, "Paracetamol")
	require.NotNil(t, row)
	assert.Equal(t, "farm1", row.PharmacyID)
	assert.Equal(t, 5, row.CurrentStock)
	assert.Equal(t, entity.SourcePurchased, row.Source)
	assert.True(t, row.Active)
	// Atributos copiados del catálogo.
	assert.Equal(t, "Analgésicos", row.Category)
	require.NotNil(t, row.BatchNumber)
	assert.Equal(t, "L-001", *row.BatchNumber)
	// Trazabilidad hacia la orden y la línea de origen.
	require.NotNil(t, row.OrderID)
	assert.Equal(t, "ord1", *row.OrderID)
	require.NotNil(t, row.OrderItemID)
	assert.Equal(t, "ord1-medA", *row.OrderItemID)
}

func TestAddOrderToInventory_IncrementaFilaExistente(t *testing.T) {
	f := newSyncFixture()
	seedPharmacy(f, "farm1")
	seedCatalogMedicine(f, "medA", "Paracetamol", "L-001")

	ord1 := seedDeliveredOrder(f, "ord1", "farm1", map[string]int{"medA": 5})
	require.NoError(t, f.uc.AddOrderToInventory(context.Background(), ord1))
	ord2 := seedDeliveredOrder(f, "ord2", "farm1", map[string]int{"medA": 3})
	require.NoError(t, f.uc.AddOrderToInventory(context.Background(), ord2))

	// Una sola fila: nombre+lote emparejan, el stock se acumula.
	assert.Len(t, f.store.inventory, 1)
	assert.Equal(t, 8, inventoryByName(f, "Paracetamol").CurrentStock)
}

func TestAddOrderToInventory_LoteNuloEmparejaConNulo(t *testing.T) {
	f := newSyncFixture()
	seedPharmacy(f, "farm1")
	seedCatalogMedicine(f, "medA", "Suero", "")

	ord1 := seedDeliveredOrder(f, "ord1", "farm1", map[string]int{"medA": 2})
	require.NoError(t, f.uc.AddOrderToInventory(context.Background(), ord1))
	ord2 := seedDeliveredOrder(f, "ord2", "farm1", map[string]int{"medA": 4})
	require.NoError(t, f.uc.AddOrderToInventory(context.Background(), ord2))

	require.Len(t, f.store.inventory, 1)
	row := inventoryByName(f, "Suero")
	assert.Nil(t, row.BatchNumber)
	assert.Equal(t, 6, row.CurrentStock)
}

func TestAddOrderToInventory_CompradorNoFarmaciaEsNoOp(t *testing.T) {
	f := newSyncFixture()
	f.store.users["cliente"] = &entity.User{ID: "cliente", Role: entity.RoleUser}
	seedCatalogMedicine(f, "medA", "Paracetamol", "L-001")
	ord := seedDeliveredOrder(f, "ord1", "cliente", map[string]int{"medA": 5})

	require.NoError(t, f.uc.AddOrderToInventory(context.Background(), ord))
	assert.Empty(t, f.store.inventory)
}

func TestAddOrderToInventory_OrdenNoEntregadaEsNoOp(t *testing.T) {
	f := newSyncFixture()
	seedPharmacy(f, "farm1")
	seedCatalogMedicine(f, "medA", "Paracetamol", "L-001")
	ord := seedDeliveredOrder(f, "ord1", "farm1", map[string]int{"medA": 5})
	ord.Status = entity.OrderShipped
	f.store.orders["ord1"].Status = entity.OrderShipped

	require.NoError(t, f.uc.AddOrderToInventory(context.Background(), ord))
	assert.Empty(t, f.store.inventory)
}

func TestAddOrderToInventory_MedicamentoRetiradoSeOmite(t *testing.T) {
	f := newSyncFixture()
	seedPharmacy(f, "farm1")
	seedCatalogMedicine(f, "medA", "Paracetamol", "L-001")
	// medB ya no existe en el catálogo.
	ord := seedDeliveredOrder(f, "ord1", "farm1", map[string]int{"medA": 5, "medB": 2})

	require.NoError(t, f.uc.AddOrderToInventory(context.Background(), ord))
	assert.Len(t, f.store.inventory, 1)
	assert.NotNil(t, inventoryByName(f, "Paracetamol"))
}

// ──────────────────────────────────────────────────────────────────────────────
// SyncDeliveredOrders
// ──────────────────────────────────────────────────────────────────────────────

func TestSyncDeliveredOrders_ProcesaTodasLasEntregadas(t *testing.T) {
	f := newSyncFixture()
	seedPharmacy(f, "farm1")
	seedCatalogMedicine(f, "medA", "Paracetamol", "L-001")
	seedCatalogMedicine(f, "medB", "Ibuprofeno", "L-002")
	seedDeliveredOrder(f, "ord1", "farm1", map[string]int{"medA": 5})
	seedDeliveredOrder(f, "ord2", "farm1", map[string]int{"medB": 3})
	// Una orden no entregada queda fuera.
	pend := seedDeliveredOrder(f, "ord3", "farm1", map[string]int{"medA": 9})
	pend.Status = entity.OrderPending
	f.store.orders["ord3"].Status = entity.OrderPending

	res, err := f.uc.SyncDeliveredOrders(context.Background(), "farm1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.OrdersProcessed)
	assert.Equal(t, 2, res.ItemsAdded)
	assert.Len(t, f.store.inventory, 2)
}

func TestSyncDeliveredOrders_MergeNoCuentaComoItemNuevo(t *testing.T) {
	f := newSyncFixture()
	seedPharmacy(f, "farm1")
	seedCatalogMedicine(f, "medA", "Paracetamol", "L-001")
	seedDeliveredOrder(f, "ord1", "farm1", map[string]int{"medA": 5})
	seedDeliveredOrder(f, "ord2", "farm1", map[string]int{"medA": 3})

	res, err := f.uc.SyncDeliveredOrders(context.Background(), "farm1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.OrdersProcessed)
	// La segunda orden empareja con la fila de la primera: solo 1 fila nueva.
	assert.Equal(t, 1, res.ItemsAdded)
	assert.Equal(t, 8, inventoryByName(f, "Paracetamol").CurrentStock)
}

func TestSyncDeliveredOrders_FalloDeUnaOrdenContinuaConLaSiguiente(t *testing.T) {
	f := newSyncFixture()
	seedPharmacy(f, "farm1")
	seedCatalogMedicine(f, "medA", "Paracetamol", "L-001")
	seedCatalogMedicine(f, "medB", "Ibuprofeno", "L-002")
	seedDeliveredOrder(f, "ord1", "farm1", map[string]int{"medA": 5})
	seedDeliveredOrder(f, "ord2", "farm1", map[string]int{"medB": 3})
	f.store.failCreateName = "Paracetamol"

	res, err := f.uc.SyncDeliveredOrders(context.Background(), "farm1")
	require.NoError(t, err)
	// ord1 falló y se revirtió; ord2 se procesó igual.
	assert.Equal(t, 1, res.OrdersProcessed)
	assert.Equal(t, 1, res.ItemsAdded)
	assert.Nil(t, inventoryByName(f, "Paracetamol"))
	assert.NotNil(t, inventoryByName(f, "Ibuprofeno"))
}

func TestSyncDeliveredOrders_SoloFarmacias(t *testing.T) {
	f := newSyncFixture()
	f.store.users["cliente"] = &entity.User{ID: "cliente", Role: entity.RoleUser}

	_, err := f.uc.SyncDeliveredOrders(context.Background(), "cliente")
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.SyncDeliveredOrders(context.Background(), "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
