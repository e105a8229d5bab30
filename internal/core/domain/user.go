package domain

// Role is the platform role carried in the access token.
type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID    string
	Role      Role
	CompanyID string // set for owners
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// ManagesCompany reports whether the actor may administer the company's fields.
func (a Actor) ManagesCompany(companyID string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == RoleOwner && a.CompanyID != "" && a.CompanyID == companyID
}

// CanActOnBooking reports whether the actor owns the booking or administers its field.
func (a Actor) CanActOnBooking(r Reservation, fieldCompanyID string) bool {
	if r.UserID != nil && *r.UserID == a.UserID {
		return true
	}
	return a.ManagesCompany(fieldCompanyID)
}
