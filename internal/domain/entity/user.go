package entity

// Roles válidos emitidos por el backend en el claim "role".
const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleOperador   = "OPERADOR"
)

// User usuario autenticado según el backend.
type User struct {
	ID            string `json:"id,omitempty"`
	NombreUsuario string `json:"nombreUsuario"`
	Correo        string `json:"correo,omitempty"`
	Rol           string `json:"rol,omitempty"`
}

// Session resultado de un login: token JWT emitido por el backend y el usuario.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
