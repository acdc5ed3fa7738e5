package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Las categorías (ErrNotFound, ErrDuplicate, ErrForbidden) se consultan con errors.Is;
// los errores concretos las envuelven para que el handler elija el mensaje.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrHasDependents      = errors.New("el recurso tiene dependencias")
	ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")
)

var (
	ErrUserNotFound     = fmt.Errorf("%w: usuario", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("%w: producto", ErrNotFound)
	ErrSupplierNotFound = fmt.Errorf("%w: proveedor", ErrNotFound)

	ErrUsernameAlreadyExists = fmt.Errorf("%w: el nombre de usuario ya existe", ErrDuplicate)
	ErrEmailAlreadyExists    = fmt.Errorf("%w: el email ya está registrado", ErrDuplicate)
	ErrProductNameExists     = fmt.Errorf("%w: ya existe un producto con ese nombre", ErrDuplicate)
	ErrSupplierNameExists    = fmt.Errorf("%w: ya existe un proveedor con ese nombre", ErrDuplicate)
	ErrSupplierEmailExists   = fmt.Errorf("%w: ya existe un proveedor con ese email", ErrDuplicate)

	ErrInvalidRole  = fmt.Errorf("%w: rol inválido", ErrInvalidInput)
	ErrSelfDeletion = fmt.Errorf("%w: no puedes eliminar tu propia cuenta", ErrForbidden)
)
