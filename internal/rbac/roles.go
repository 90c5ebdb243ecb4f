package rbac

// Role names. Keep these stable; they are persisted on user rows and embedded
// in issued tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func IsAdmin(role string) bool { return role == RoleAdmin }
