package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleSubadmin = "subadmin"
	RoleUser     = "user"
)

// ValidRole informa si role es uno de los roles enumerados.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSubadmin, RoleUser:
		return true
	}
	return false
}

// User representa una cuenta del sistema. Username y Email son únicos globalmente.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, subadmin, user
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin atajo para chequeos de autorización.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
