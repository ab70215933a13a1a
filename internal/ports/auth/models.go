package auth

// Roles de usuario.
const (
	RoleAdmin     = "admin"
	RolePeluquera = "peluquera"
)

// Claims representa la identidad autenticada del request.
type Claims struct {
	UserID   string
	Username string
	Role     string
}

func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }
