package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/tienda-admin/internal/domain"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
)

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.TxRunner           = (*Store)(nil)
)

// Store persistencia en memoria con las mismas restricciones que el esquema SQL
// (unicidad, FK de proveedor con restrict). Se usa con APP_STORAGE=memory y en tests.
type Store struct {
	txMu sync.Mutex // serializa transacciones
	mu   sync.RWMutex
	data state
}

type state struct {
	users     map[string]entity.User
	products  map[string]entity.Product
	suppliers map[string]entity.Supplier
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: state{
		users:     make(map[string]entity.User),
		products:  make(map[string]entity.Product),
		suppliers: make(map[string]entity.Supplier),
	}}
}

// Users repositorio de usuarios sobre el store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Products repositorio de productos sobre el store.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Suppliers repositorio de proveedores sobre el store.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }

// Run ejecuta fn de forma exclusiva; si fn falla se restaura la copia previa (rollback).
func (s *Store) Run(_ context.Context, fn func(repos repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	err := fn(repository.Repos{Users: s.Users(), Products: s.Products(), Suppliers: s.Suppliers()})
	if err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
	}
	return err
}

func (st state) clone() state {
	out := state{
		users:     make(map[string]entity.User, len(st.users)),
		products:  make(map[string]entity.Product, len(st.products)),
		suppliers: make(map[string]entity.Supplier, len(st.suppliers)),
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	for k, v := range st.products {
		out.products[k] = v
	}
	for k, v := range st.suppliers {
		out.suppliers[k] = v
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// ─── Users ────────────────────────────────────────────────────────────────────

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(user); err != nil {
		return err
	}
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username }), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email }), nil
}

func (r *UserRepo) ExistsUsername(_ context.Context, username, excludeID string) (bool, error) {
	u := r.find(func(u entity.User) bool { return u.Username == username && u.ID != excludeID })
	return u != nil, nil
}

func (r *UserRepo) ExistsEmail(_ context.Context, email, excludeID string) (bool, error) {
	u := r.find(func(u entity.User) bool { return u.Email == email && u.ID != excludeID })
	return u != nil, nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.users[user.ID]; !ok {
		return nil
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *UserRepo) UpdateRole(_ context.Context, id, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.data.users[id]; ok {
		u.Role = role
		r.s.data.users[id] = u
	}
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	all := make([]entity.User, 0, len(r.s.data.users))
	for _, u := range r.s.data.users {
		all = append(all, u)
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].Username < all[j].Username
	})
	var out []*entity.User
	for _, u := range page(all, limit, offset) {
		u := u
		out = append(out, &u)
	}
	return out, nil
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.data.users), nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.data.users, id)
	return nil
}

func (r *UserRepo) find(match func(entity.User) bool) *entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.data.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

// checkUnique equivale a los UNIQUE de la tabla users. Llamar con el lock tomado.
func (r *UserRepo) checkUnique(user *entity.User) error {
	for id, u := range r.s.data.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username {
			return domain.ErrUsernameAlreadyExists
		}
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	return nil
}

// ─── Suppliers ────────────────────────────────────────────────────────────────

// SupplierRepo implementación en memoria de SupplierRepository.
type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(_ context.Context, supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(supplier); err != nil {
		return err
	}
	stored := *supplier
	stored.ProductCount = 0
	r.s.data.suppliers[supplier.ID] = stored
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.data.suppliers[id]
	if !ok {
		return nil, nil
	}
	s.ProductCount = r.s.countProducts(id)
	return &s, nil
}

func (r *SupplierRepo) ExistsName(_ context.Context, name, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for id, s := range r.s.data.suppliers {
		if id != excludeID && s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *SupplierRepo) ExistsEmail(_ context.Context, email, excludeID string) (bool, error) {
	if email == "" {
		return false, nil
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for id, s := range r.s.data.suppliers {
		if id != excludeID && s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *SupplierRepo) Update(_ context.Context, supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.suppliers[supplier.ID]; !ok {
		return nil
	}
	if err := r.checkUnique(supplier); err != nil {
		return err
	}
	r.s.data.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *SupplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	all := make([]entity.Supplier, 0, len(r.s.data.suppliers))
	for id, s := range r.s.data.suppliers {
		s.ProductCount = r.s.countProducts(id)
		all = append(all, s)
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	var out []*entity.Supplier
	for _, s := range page(all, limit, offset) {
		s := s
		out = append(out, &s)
	}
	return out, nil
}

func (r *SupplierRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.data.suppliers), nil
}

// Delete respeta la FK: con productos asociados devuelve ErrHasDependents.
func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.countProducts(id) > 0 {
		return domain.ErrHasDependents
	}
	delete(r.s.data.suppliers, id)
	return nil
}

func (r *SupplierRepo) checkUnique(supplier *entity.Supplier) error {
	for id, s := range r.s.data.suppliers {
		if id == supplier.ID {
			continue
		}
		if s.Name == supplier.Name {
			return domain.ErrSupplierNameExists
		}
		if supplier.Email != "" && s.Email == supplier.Email {
			return domain.ErrSupplierEmailExists
		}
	}
	return nil
}

// countProducts llamar con el lock tomado.
func (s *Store) countProducts(supplierID string) int {
	n := 0
	for _, p := range s.data.products {
		if p.SupplierID == supplierID {
			n++
		}
	}
	return n
}

// ─── Products ─────────────────────────────────────────────────────────────────

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkWrite(product); err != nil {
		return err
	}
	r.s.data.products[product.ID] = r.stored(product)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	r.resolveSupplier(&p)
	return &p, nil
}

func (r *ProductRepo) ExistsName(_ context.Context, name, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for id, p := range r.s.data.products {
		if id != excludeID && p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.products[product.ID]; !ok {
		return nil
	}
	if err := r.checkWrite(product); err != nil {
		return err
	}
	r.s.data.products[product.ID] = r.stored(product)
	return nil
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	all := make([]entity.Product, 0, len(r.s.data.products))
	for _, p := range r.s.data.products {
		r.resolveSupplier(&p)
		all = append(all, p)
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	var out []*entity.Product
	for _, p := range page(all, limit, offset) {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *ProductRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.data.products), nil
}

func (r *ProductRepo) CountBySupplier(_ context.Context, supplierID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.countProducts(supplierID), nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.data.products, id)
	return nil
}

// checkWrite equivale al UNIQUE(name) y a la FK supplier_id. Llamar con el lock tomado.
func (r *ProductRepo) checkWrite(product *entity.Product) error {
	for id, p := range r.s.data.products {
		if id != product.ID && p.Name == product.Name {
			return domain.ErrProductNameExists
		}
	}
	if product.HasSupplier() {
		if _, ok := r.s.data.suppliers[product.SupplierID]; !ok {
			return domain.ErrSupplierNotFound
		}
	}
	return nil
}

// stored descarta el nombre de proveedor: se resuelve al leer, como el JOIN.
func (r *ProductRepo) stored(product *entity.Product) entity.Product {
	p := *product
	p.SupplierName = ""
	return p
}

func (r *ProductRepo) resolveSupplier(p *entity.Product) {
	if s, ok := r.s.data.suppliers[p.SupplierID]; ok && p.HasSupplier() {
		p.SupplierName = s.Name
	}
}
