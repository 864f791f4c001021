package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/oficina-api/pkg/jwt"
)

// Chaves de c.Locals preenchidas pelo AuthMiddleware.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// AuthMiddleware valida o Bearer token emitido pelo backend hospedado
// e guarda o id do usuário e o papel em c.Locals.
func AuthMiddleware(jwtSecret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return respondError(c, fiber.StatusUnauthorized, "Token ausente", "cabeçalho Authorization obrigatório")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respondError(c, fiber.StatusUnauthorized, "Token inválido", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return respondError(c, fiber.StatusUnauthorized, "Token ausente", "token vazio")
		}
		id, err := jwt.Parse(jwtSecret, issuer, tokenString)
		if err != nil {
			return respondError(c, fiber.StatusUnauthorized, "Token inválido", "token inválido ou expirado")
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalRole, id.Role)
		return c.Next()
	}
}

// RequireRole restringe a rota aos papéis informados. Usar depois do AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return respondError(c, fiber.StatusUnauthorized, "Token sem papel", "")
		}
		if _, ok := allowed[role]; !ok {
			return respondError(c, fiber.StatusForbidden, "Acesso negado", "papel "+role+" sem permissão")
		}
		return c.Next()
	}
}

// GetUserID devolve o id do usuário autenticado ("" fora de rota protegida).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devolve o papel do usuário autenticado.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
