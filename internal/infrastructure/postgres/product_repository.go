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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// El nombre del proveedor se resuelve con LEFT JOIN: supplier_id es opcional.
const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.stock, p.supplier_id, s.name, p.created_at, p.updated_at
	FROM products p
	LEFT JOIN suppliers s ON s.id = p.supplier_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.Stock,
		nullIfEmpty(product.SupplierID), product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return mapProductWriteError(err, "insert product")
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ExistsName informa si otro producto (distinto de excludeID) ya usa el nombre.
func (r *ProductRepo) ExistsName(ctx context.Context, name, excludeID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM products WHERE name = $1 AND ($2::uuid IS NULL OR id <> $2::uuid)
		)`, name, excludeOrNil(excludeID)).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check product name: %w", err)
	}
	return ok, nil
}

// Update actualiza todos los campos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, stock = $5, supplier_id = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.Stock,
		nullIfEmpty(product.SupplierID), product.UpdatedAt,
	)
	if err != nil {
		return mapProductWriteError(err, "update product")
	}
	return nil
}

// List lista productos con paginación, ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, productSelect+` ORDER BY p.name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Count total de productos.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// CountBySupplier cuántos productos referencian al proveedor.
func (r *ProductRepo) CountBySupplier(ctx context.Context, supplierID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE supplier_id = $1`, supplierID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products by supplier: %w", err)
	}
	return n, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var supplierID, supplierName *string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&supplierID, &supplierName, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if supplierID != nil {
		p.SupplierID = *supplierID
	}
	if supplierName != nil {
		p.SupplierName = *supplierName
	}
	return &p, nil
}

func mapProductWriteError(err error, op string) error {
	if isUniqueViolation(err) {
		return domain.ErrProductNameExists
	}
	if isForeignKeyViolation(err) {
		return domain.ErrSupplierNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
