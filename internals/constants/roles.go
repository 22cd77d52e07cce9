package constants

import "fmt"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	ErrOnlyAdminsCanAccess = "❌ Only admins may access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

var (
	AllRoles = []string{
		RoleUser,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
