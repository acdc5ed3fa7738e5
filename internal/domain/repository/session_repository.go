package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-admin/internal/domain/entity"
)

// SessionStore puerto para el estado de sesión del lado servidor.
// Get devuelve (nil, nil) si la sesión no existe o expiró.
type SessionStore interface {
	Save(ctx context.Context, session *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Users     UserRepository
	Products  ProductRepository
	Suppliers SupplierRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
