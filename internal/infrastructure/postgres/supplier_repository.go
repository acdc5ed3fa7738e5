package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-admin/internal/domain"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un nuevo proveedor. Email vacío se guarda como NULL (la unicidad no aplica).
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, contact_person, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.ContactPerson, s.Phone, nullIfEmpty(s.Email), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return mapSupplierUniqueViolation(err, "insert supplier")
	}
	return nil
}

// GetByID obtiene un proveedor por ID, con su número de productos.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		SELECT s.id, s.name, s.contact_person, s.phone, s.email, s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM products p WHERE p.supplier_id = s.id)
		FROM suppliers s WHERE s.id = $1`
	s, err := scanSupplier(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// ExistsName informa si otro proveedor (distinto de excludeID) ya usa el nombre.
func (r *SupplierRepo) ExistsName(ctx context.Context, name, excludeID string) (bool, error) {
	return r.exists(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM suppliers WHERE name = $1 AND ($2::uuid IS NULL OR id <> $2::uuid)
		)`, name, excludeID)
}

// ExistsEmail informa si otro proveedor (distinto de excludeID) ya usa el email.
func (r *SupplierRepo) ExistsEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM suppliers WHERE email = $1 AND ($2::uuid IS NULL OR id <> $2::uuid)
		)`, email, excludeID)
}

// Update actualiza un proveedor existente.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, contact_person = $3, phone = $4, email = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, s.ID, s.Name, s.ContactPerson, s.Phone, nullIfEmpty(s.Email), s.UpdatedAt)
	if err != nil {
		return mapSupplierUniqueViolation(err, "update supplier")
	}
	return nil
}

// List lista proveedores con paginación y conteo de productos.
func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT s.id, s.name, s.contact_person, s.phone, s.email, s.created_at, s.updated_at,
		       COUNT(p.id)
		FROM suppliers s
		LEFT JOIN products p ON p.supplier_id = s.id
		GROUP BY s.id
		ORDER BY s.name ASC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Count total de proveedores.
func (r *SupplierRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count suppliers: %w", err)
	}
	return n, nil
}

// Delete elimina un proveedor. La FK con ON DELETE RESTRICT respalda el chequeo del caso de uso.
func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrHasDependents
		}
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) exists(ctx context.Context, query, value, excludeID string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, query, value, excludeOrNil(excludeID)).Scan(&ok); err != nil {
		return false, fmt.Errorf("check supplier uniqueness: %w", err)
	}
	return ok, nil
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	var email *string
	if err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Phone, &email,
		&s.CreatedAt, &s.UpdatedAt, &s.ProductCount); err != nil {
		return nil, err
	}
	if email != nil {
		s.Email = *email
	}
	return &s, nil
}

func mapSupplierUniqueViolation(err error, op string) error {
	if isUniqueViolation(err) {
		if constraintName(err) == "suppliers_email_key" {
			return domain.ErrSupplierEmailExists
		}
		return domain.ErrSupplierNameExists
	}
	return fmt.Errorf("%s: %w", op, err)
}
