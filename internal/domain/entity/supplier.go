package entity

import "time"

// Supplier representa un proveedor. Name es único; Email es único solo si no está vacío.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	ProductCount  int // solo lectura, calculado en listados
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
