package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
	"github.com/jhoicas/inventario-consola/internal/application/ports"
	"github.com/jhoicas/inventario-consola/internal/domain"
	"github.com/jhoicas/inventario-consola/pkg/jwt"
)

// Locals keys para usuario, rol y token en Fiber.
const (
	LocalUsername = "username"
	LocalRole     = "role"
	LocalToken    = "token"
)

// AuthMiddleware valida el Bearer Token JWT, extrae usuario y rol a c.Locals y
// deja el token en el contexto para reenviarlo al backend.
//
// Con jwtSecret vacío el token solo se decodifica (el backend lo verifica en
// cada llamada); igual se rechazan tokens malformados o vencidos.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Read(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		username := claims.NombreUsuario
		if username == "" {
			username = claims.Subject
		}
		c.Locals(LocalUsername, username)
		c.Locals(LocalRole, strings.ToUpper(claims.Role))
		c.Locals(LocalToken, tokenString)
		c.SetUserContext(ports.WithToken(c.UserContext(), tokenString))
		return c.Next()
	}
}

// TokenVerifier confirma que un token es legítimo cuando la consola no tiene
// la clave para verificar la firma.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) error
}

// VerifiedToken exige que v acepte el token antes de servir datos que no pasan
// por el backend (tablero compartido, alertas recibidas por push). Debe ir
// después de AuthMiddleware. Sin verificador se rechaza todo.
func VerifiedToken(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token no verificable"})
		}
		err := v.Verify(c.UserContext(), GetToken(c))
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token rechazado por el backend"})
		default:
			return respondError(c, err)
		}
	}
}

// RequireRole deja pasar solo a los roles indicados. Debe ir después de
// AuthMiddleware.
//   - 401 MISSING_ROLE → el token no trae rol.
//   - 403 FORBIDDEN    → el rol no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
		}
		return c.Next()
	}
}

// RequestContext copia el id de la petición (middleware requestid) al contexto
// que viaja hacia el backend.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			c.SetUserContext(ports.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// GetUsername devuelve el usuario del token (después del middleware de auth).
func GetUsername(c *fiber.Ctx) string { return localString(c, LocalUsername) }

// GetRole devuelve el rol en mayúsculas.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetToken devuelve el token crudo.
func GetToken(c *fiber.Ctx) string { return localString(c, LocalToken) }

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
