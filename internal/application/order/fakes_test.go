package order_test

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/order"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria compartido por los repos fake
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	users      map[string]*entity.User
	medicines  map[string]*entity.Medicine
	orders     map[string]*entity.Order
	orderItems map[string][]*entity.OrderItem // por orderID
	cart       map[string][]*entity.CartItem  // por userID
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*entity.User),
		medicines:  make(map[string]*entity.Medicine),
		orders:     make(map[string]*entity.Order),
		orderItems: make(map[string][]*entity.OrderItem),
		cart:       make(map[string][]*entity.CartItem),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.medicines {
		m := *v
		c.medicines[k] = &m
	}
	for k, v := range s.orders {
		o := *v
		c.orders[k] = &o
	}
	for k, items := range s.orderItems {
		for _, it := range items {
			cp := *it
			c.orderItems[k] = append(c.orderItems[k], &cp)
		}
	}
	for k, items := range s.cart {
		for _, it := range items {
			cp := *it
			c.cart[k] = append(c.cart[k], &cp)
		}
	}
	return c
}

func (s *memStore) replaceWith(o *memStore) {
	s.users = o.users
	s.medicines = o.medicines
	s.orders = o.orders
	s.orderItems = o.orderItems
	s.cart = o.cart
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner fake: snapshot antes de fn, restauración si fn falla
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	store *memStore
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	medicineRepo repository.MedicineRepository,
	cartRepo repository.CartRepository,
) error) error {
	snapshot := r.store.clone()
	err := fn(&fakeOrderRepo{r.store}, &fakeMedicineRepo{r.store}, &fakeCartRepo{r.store})
	if err != nil {
		// Rollback: ninguna escritura parcial sobrevive.
		r.store.replaceWith(snapshot)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos fake (devuelven copias, como un scan de base de datos)
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) Create(u *entity.User) error {
	cp := *u
	r.store.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListAdmins() ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.store.users {
		if u.Role == entity.RoleAdmin {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) SetVerified(id string) error {
	if u, ok := r.store.users[id]; ok {
		u.Verified = true
	}
	return nil
}

type fakeMedicineRepo struct{ store *memStore }

func (r *fakeMedicineRepo) Create(m *entity.Medicine) error {
	cp := *m
	r.store.medicines[m.ID] = &cp
	return nil
}

func (r *fakeMedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	m, ok := r.store.medicines[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMedicineRepo) GetForUpdate(id string) (*entity.Medicine, error) {
	return r.GetByID(id)
}

func (r *fakeMedicineRepo) Update(m *entity.Medicine) error {
	cp := *m
	r.store.medicines[m.ID] = &cp
	return nil
}

func (r *fakeMedicineRepo) UpdateStock(m *entity.Medicine) error {
	stored, ok := r.store.medicines[m.ID]
	if !ok {
		return errors.New("medicamento inexistente")
	}
	stored.CurrentStock = m.CurrentStock
	stored.Status = m.Status
	return nil
}

func (r *fakeMedicineRepo) Delete(id string) error {
	delete(r.store.medicines, id)
	return nil
}

func (r *fakeMedicineRepo) List(category, search string, limit, offset int) ([]*entity.Medicine, error) {
	var out []*entity.Medicine
	for _, m := range r.store.medicines {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMedicineRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.Medicine, error) {
	var out []*entity.Medicine
	for _, m := range r.store.medicines {
		if m.SupplierID == supplierID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeOrderRepo struct{ store *memStore }

func (r *fakeOrderRepo) Create(o *entity.Order) error {
	cp := *o
	r.store.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) CreateItem(it *entity.OrderItem) error {
	cp := *it
	r.store.orderItems[it.OrderID] = append(r.store.orderItems[it.OrderID], &cp)
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *fakeOrderRepo) UpdateStatus(o *entity.Order) error {
	stored, ok := r.store.orders[o.ID]
	if !ok {
		return errors.New("orden inexistente")
	}
	stored.Status = o.Status
	stored.CancellationReason = o.CancellationReason
	stored.CancelledAt = o.CancelledAt
	stored.UpdatedAt = o.UpdatedAt
	return nil
}

func (r *fakeOrderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.store.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeOrderRepo) ListByUserAndStatus(userID string, status entity.OrderStatus) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.store.orders {
		if o.UserID == userID && o.Status == status {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeOrderRepo) ItemsByOrder(orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	for _, it := range r.store.orderItems[orderID] {
		cp := *it
		if med, ok := r.store.medicines[it.MedicineID]; ok {
			cp.MedicineName = med.Name
		}
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOrderRepo) CountItemsBySupplier(orderID, supplierID string) (int, error) {
	n := 0
	for _, it := range r.store.orderItems[orderID] {
		if med, ok := r.store.medicines[it.MedicineID]; ok && med.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) ItemsByOrderAndSupplier(orderID, supplierID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	for _, it := range r.store.orderItems[orderID] {
		med, ok := r.store.medicines[it.MedicineID]
		if !ok || med.SupplierID != supplierID {
			continue
		}
		cp := *it
		cp.MedicineName = med.Name
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.Order, error) {
	seen := make(map[string]bool)
	var out []*entity.Order
	for orderID, items := range r.store.orderItems {
		for _, it := range items {
			med, ok := r.store.medicines[it.MedicineID]
			if ok && med.SupplierID == supplierID && !seen[orderID] {
				seen[orderID] = true
				cp := *r.store.orders[orderID]
				out = append(out, &cp)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeCartRepo struct{ store *memStore }

func (r *fakeCartRepo) Create(it *entity.CartItem) error {
	cp := *it
	r.store.cart[it.UserID] = append(r.store.cart[it.UserID], &cp)
	return nil
}

func (r *fakeCartRepo) GetByUserAndMedicine(userID, medicineID string) (*entity.CartItem, error) {
	for _, it := range r.store.cart[userID] {
		if it.MedicineID == medicineID {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) ListByUser(userID string) ([]*entity.CartItem, error) {
	var out []*entity.CartItem
	for _, it := range r.store.cart[userID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCartRepo) UpdateQuantity(id string, quantity int) error {
	for _, items := range r.store.cart {
		for _, it := range items {
			if it.ID == id {
				it.Quantity = quantity
				return nil
			}
		}
	}
	return errors.New("línea de carrito inexistente")
}

func (r *fakeCartRepo) Delete(id string) error {
	for userID, items := range r.store.cart {
		for i, it := range items {
			if it.ID == id {
				r.store.cart[userID] = append(items[:i], items[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *fakeCartRepo) ClearByUser(userID string) error {
	delete(r.store.cart, userID)
	return nil
}

func (r *fakeCartRepo) TotalQuantityByUser(userID string) (int, error) {
	total := 0
	for _, it := range r.store.cart[userID] {
		total += it.Quantity
	}
	return total, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Notifier y syncer fake
// ──────────────────────────────────────────────────────────────────────────────

type notifierCall struct {
	kind    string
	email   string
	orderID string
	detail  string
}

type fakeNotifier struct {
	calls []notifierCall
	fail  bool // cuando true, todos los envíos fallan
}

func (n *fakeNotifier) record(kind, email, orderID, detail string) error {
	n.calls = append(n.calls, notifierCall{kind: kind, email: email, orderID: orderID, detail: detail})
	if n.fail {
		return errors.New("smtp caído")
	}
	return nil
}

func (n *fakeNotifier) OrderConfirmation(email, name, orderID string, total decimal.Decimal, paymentMethod, address, phone string) error {
	return n.record("confirmation", email, orderID, total.String())
}

func (n *fakeNotifier) NewOrderAlert(adminEmail, adminName, orderID, customerName string) error {
	return n.record("new_order_alert", adminEmail, orderID, customerName)
}

func (n *fakeNotifier) StatusUpdate(email, name, orderID, statusDisplay string) error {
	return n.record("status_update", email, orderID, statusDisplay)
}

func (n *fakeNotifier) CancellationConfirmation(email, name, orderID, reason string) error {
	return n.record("cancel_confirmation", email, orderID, reason)
}

func (n *fakeNotifier) CancellationAlert(adminEmail, adminName, orderID, customerName, reason string) error {
	return n.record("cancel_alert", adminEmail, orderID, reason)
}

func (n *fakeNotifier) byKind(kind string) []notifierCall {
	var out []notifierCall
	for _, c := range n.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

type fakeSyncer struct {
	orders []string
	err    error
}

func (s *fakeSyncer) AddOrderToInventory(ctx context.Context, ord *entity.Order) error {
	s.orders = append(s.orders, ord.ID)
	return s.err
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del caso de uso bajo prueba
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memStore
	notifier *fakeNotifier
	syncer   *fakeSyncer
	uc       *order.OrderUseCase
}

func newFixture() *fixture {
	store := newMemStore()
	notifier := &fakeNotifier{}
	syncer := &fakeSyncer{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := order.NewOrderUseCase(
		&fakeTxRunner{store},
		&fakeUserRepo{store},
		&fakeOrderRepo{store},
		notifier,
		syncer,
		order.DefaultCancelWindow,
		log,
	)
	return &fixture{store: store, notifier: notifier, syncer: syncer, uc: uc}
}
