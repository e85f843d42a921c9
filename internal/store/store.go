// Package store persists users, orders and the admin set in a single JSON
// document. Every mutation rewrites the whole file; the design assumes a
// single writer process.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"topup-bot/internal/common/logger"
	"topup-bot/internal/model"
)

var ErrOrderNotFound = errors.New("order not found")

// document is the on-disk schema.
type document struct {
	Users       map[string]model.User  `json:"users"`
	Orders      map[string]model.Order `json:"orders"`
	Admins      []int64                `json:"admins"`
	LastOrderID int64                  `json:"last_order_id"`
}

type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

// New loads the document from path, or starts from an empty one when the file
// is missing or unreadable. Load failure is never fatal: the store recovers by
// reinitializing and persisting an empty document.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	s := &Store{path: path, doc: emptyDocument()}

	raw, err := os.ReadFile(path)
	if err == nil {
		err = json.Unmarshal(raw, &s.doc)
	}
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("store: starting from empty document")
		s.doc = emptyDocument()
		if err := s.persist(); err != nil {
			return nil, err
		}
		return s, nil
	}

	if s.doc.Users == nil {
		s.doc.Users = make(map[string]model.User)
	}
	if s.doc.Orders == nil {
		s.doc.Orders = make(map[string]model.Order)
	}
	return s, nil
}

func emptyDocument() document {
	return document{
		Users:  make(map[string]model.User),
		Orders: make(map[string]model.Order),
		Admins: []int64{},
	}
}

// persist rewrites the whole document. Callers must hold s.mu.
func (s *Store) persist() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.doc); err != nil {
		return err
	}
	return os.WriteFile(s.path, buf.Bytes(), 0o644)
}

// AddUser registers a user on first contact. Duplicate calls are no-ops.
func (s *Store) AddUser(id int64, username, firstName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.FormatInt(id, 10)
	if _, ok := s.doc.Users[key]; ok {
		return nil
	}
	s.doc.Users[key] = model.User{
		ID:        id,
		Username:  username,
		FirstName: firstName,
		CreatedAt: time.Now(),
	}
	return s.persist()
}

// AddOrder allocates the next order id and stores a new awaiting-payment
// order with both timestamps set to now.
func (s *Store) AddOrder(userID int64, game, currency string, amount float64, gameID string, method model.PaymentMethod) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.LastOrderID++
	now := time.Now()
	order := model.Order{
		ID:            strconv.FormatInt(s.doc.LastOrderID, 10),
		UserID:        userID,
		Game:          game,
		Currency:      currency,
		Amount:        amount,
		GameID:        gameID,
		PaymentMethod: method,
		Status:        model.OrderStatusAwaitingPayment,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.doc.Orders[order.ID] = order
	if err := s.persist(); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// OrderUpdate is a partial patch applied by UpdateOrder. Nil fields are left
// untouched.
type OrderUpdate struct {
	Status        *model.OrderStatus
	PaymentMethod *model.PaymentMethod
}

// UpdateOrder merges upd into an existing order and refreshes updated_at.
// Returns ErrOrderNotFound for an unknown id, leaving the document unchanged.
func (s *Store) UpdateOrder(id string, upd OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.doc.Orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if upd.Status != nil {
		order.Status = *upd.Status
	}
	if upd.PaymentMethod != nil {
		order.PaymentMethod = *upd.PaymentMethod
	}
	order.UpdatedAt = time.Now()
	s.doc.Orders[id] = order
	return s.persist()
}

// UpdateOrderStatus is a convenience wrapper over UpdateOrder.
func (s *Store) UpdateOrderStatus(id string, status model.OrderStatus) error {
	return s.UpdateOrder(id, OrderUpdate{Status: &status})
}

// Order returns an order snapshot by id.
func (s *Store) Order(id string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.doc.Orders[id]
	return order, ok
}

// User returns a user snapshot by id.
func (s *Store) User(id int64) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.doc.Users[strconv.FormatInt(id, 10)]
	return u, ok
}

// UserOrders returns an unordered snapshot of one user's orders.
func (s *Store) UserOrders(userID int64) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []model.Order
	for _, o := range s.doc.Orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders
}

// AllOrders returns an unordered snapshot of every order.
func (s *Store) AllOrders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]model.Order, 0, len(s.doc.Orders))
	for _, o := range s.doc.Orders {
		orders = append(orders, o)
	}
	return orders
}

// Page is one slice of an order listing.
type Page struct {
	Orders []model.Order
	Page   int
	Pages  int
	Total  int
}

// UserOrdersPage returns one page of a user's orders, newest first.
func (s *Store) UserOrdersPage(userID int64, page, pageSize int) Page {
	return paginate(s.UserOrders(userID), page, pageSize)
}

// AllOrdersPage returns one page of all orders, newest first.
func (s *Store) AllOrdersPage(page, pageSize int) Page {
	return paginate(s.AllOrders(), page, pageSize)
}

// paginate sorts newest-first and slices out the requested page. A page past
// the end yields an empty page, not an error.
func paginate(orders []model.Order, page, pageSize int) Page {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		// Creation times can collide; fall back to the numeric id so the
		// page split is deterministic.
		a, _ := strconv.ParseInt(orders[i].ID, 10, 64)
		b, _ := strconv.ParseInt(orders[j].ID, 10, 64)
		return a > b
	})

	total := len(orders)
	pages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start < 0 || start >= total {
		return Page{Orders: nil, Page: page, Pages: pages, Total: total}
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return Page{Orders: orders[start:end], Page: page, Pages: pages, Total: total}
}

// UserIDs returns every known user id, for broadcast fan-out.
func (s *Store) UserIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.doc.Users))
	for _, u := range s.doc.Users {
		ids = append(ids, u.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsAdmin reports membership in the admin set.
func (s *Store) IsAdmin(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.doc.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// AdminIDs returns the admin set.
func (s *Store) AdminIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, len(s.doc.Admins))
	copy(ids, s.doc.Admins)
	return ids
}

// SyncAdmins merges the configured admin ids into the persisted set. Union
// only: ids already in the store are never pruned.
func (s *Store) SyncAdmins(configured []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[int64]struct{}, len(s.doc.Admins)+len(configured))
	for _, id := range s.doc.Admins {
		set[id] = struct{}{}
	}
	for _, id := range configured {
		set[id] = struct{}{}
	}

	merged := make([]int64, 0, len(set))
	for id := range set {
		merged = append(merged, id)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
	s.doc.Admins = merged
	return s.persist()
}
