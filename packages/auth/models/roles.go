package models

// Constantes pour les rôles disponibles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// GetDefaultRoles retourne les rôles par défaut pour un nouvel utilisateur
func GetDefaultRoles() Roles {
	return Roles{RoleUser}
}

func GetAllRoles() []string {
	return []string{
		RoleUser,
		RoleAdmin,
	}
}

// IsKnownRole reports whether role is one of GetAllRoles.
func IsKnownRole(role string) bool {
	for _, r := range GetAllRoles() {
		if r == role {
			return true
		}
	}
	return false
}
