package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operador"
)

// User representa un usuario de la aplicación. El id se adjunta como actor a
// cada movimiento y ajuste que el usuario provoca.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string // admin | operador
	IsActive     bool
	CreatedAt    time.Time
}
