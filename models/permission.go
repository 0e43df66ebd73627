package models

type Permission int

const (
	PermissionAdmin Permission = 1
)

func (u *User) HasPermission(required Permission) bool {
	switch required {
	case PermissionAdmin:
		return u.Admin
	}
	return false
}

func (u *User) HasPermissions(required []Permission) bool {
	for _, permission := range required {
		if !u.HasPermission(permission) {
			return false
		}
	}
	return true
}
