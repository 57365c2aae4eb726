package models

// AccountKind tags which column an account token matched
type AccountKind int

// Precedence order: a student-id match beats a ticket match beats a name match.
const (
	AccountByStudentID AccountKind = iota + 1
	AccountByTicket
	AccountByName
)

func (k AccountKind) String() string {
	switch k {
	case AccountByStudentID:
		return "student_id"
	case AccountByTicket:
		return "ticket"
	case AccountByName:
		return "name"
	default:
		return "none"
	}
}
