package domain

type UserRole string

const (
	UserRoleAdmin           UserRole = "admin"
	UserRoleScheduleManager UserRole = "schedule_manager"
	UserRoleProfessional    UserRole = "professional"
	UserRolePatient         UserRole = "patient"
)

// CanManageSchedules reports whether the role may change calendars, policies and slots.
func (r UserRole) CanManageSchedules() bool {
	return r == UserRoleAdmin || r == UserRoleScheduleManager
}

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleScheduleManager, UserRoleProfessional, UserRolePatient:
		return true
	}
	return false
}
