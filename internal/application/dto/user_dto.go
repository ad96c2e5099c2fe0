package dto

// LoginRequest credenciales tal como las envía el formulario de acceso.
type LoginRequest struct {
	NombreUsuario string `json:"nombreUsuario" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

// RegisterRequest alta de usuario. Roles por defecto OPERADOR.
type RegisterRequest struct {
	NombreUsuario   string `json:"nombreUsuario" validate:"required,min=3,max=100"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	Correo          string `json:"correo" validate:"omitempty,email"`
	Roles           string `json:"roles" validate:"omitempty,oneof=ADMIN SUPERVISOR OPERADOR"`
}

// UserResponse usuario visible para la consola.
type UserResponse struct {
	ID            string `json:"id,omitempty"`
	NombreUsuario string `json:"nombreUsuario"`
	Correo        string `json:"correo,omitempty"`
	Rol           string `json:"rol"`
}

// LoginResponse token emitido por el backend y el usuario resuelto.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
