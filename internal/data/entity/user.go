package entity

// Role is a closed set; authorization checkpoints switch over it
// exhaustively instead of comparing raw strings.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	Base
	Name         string  `db:"name"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	Role         Role    `db:"role"`
	Phone        *string `db:"phone_number"`
	Address      *string `db:"address"`
	Department   *string `db:"department"`
	Province     *string `db:"province"`
	District     *string `db:"district"`
	IsActive     bool    `db:"is_active"`
}
