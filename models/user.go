package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type User struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          string     `gorm:"unique;not null" json:"email"`
	Username       *string    `gorm:"unique" json:"username,omitempty"`
	Password       string     `gorm:"not null" json:"-"`
	Active         bool       `json:"active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CurrentLoginAt *time.Time `json:"current_login_at,omitempty"`
	LastLoginIP    string     `json:"-"`
	CurrentLoginIP string     `json:"-"`
	LoginCount     int        `json:"login_count"`
	Roles          []Role     `gorm:"many2many:roles_users" json:"roles"`
	Orders         []Order    `gorm:"foreignKey:UserID" json:"orders,omitempty"`
}

type Role struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"unique;not null" json:"name"`
	Description string         `json:"description"`
	Permissions PermissionList `gorm:"type:text" json:"permissions"`
}

// PermissionList stores an ordered list of permission strings as a JSON
// column, readable by both the postgres and sqlite drivers.
type PermissionList []string

func (p PermissionList) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *PermissionList) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported type for PermissionList")
	}
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether any of the user's roles grants at least
// one of the given permissions.
func (u *User) HasAnyPermission(names ...string) bool {
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			for _, want := range names {
				if p == want {
					return true
				}
			}
		}
	}
	return false
}

// RoleNames returns the user's role names in storage order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
