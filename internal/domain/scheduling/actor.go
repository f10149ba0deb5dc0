package scheduling

// Role vem das claims do colaborador de Auth.
type Role string

const (
	RoleManager      Role = "manager"
	RoleAttendant    Role = "attendant"
	RoleProfessional Role = "professional"
	RoleClient       Role = "client"
)

// Actor é passado explicitamente aos use cases — nada de contexto ambiente
// decidindo permissão.
type Actor struct {
	ID      uint
	SalonID uint
	Email   string
	Role    Role
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleManager || a.Role == RoleAttendant
}
