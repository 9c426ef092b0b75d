package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// UserStatus enum values
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive || s == UserSuspended
}

// Roles is the set of role tags of a user, stored as a comma separated column
type Roles []Role

// Has reports whether role is in the set
func (r Roles) Has(role Role) bool {
	for _, have := range r {
		if have == role {
			return true
		}
	}
	return false
}

func (r Roles) Value() (driver.Value, error) {
	parts := make([]string, len(r))
	for i, role := range r {
		parts[i] = string(role)
	}
	return strings.Join(parts, ","), nil
}

func (r *Roles) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*r = Roles{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Roles", src)
	}

	roles := Roles{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			roles = append(roles, Role(part))
		}
	}
	*r = roles
	return nil
}

// User is a church member able to request or approve solicitudes
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Status    UserStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Roles     Roles      `gorm:"type:text" json:"roles"`
	Password  string     `gorm:"type:varchar(255)" json:"-"` // bcrypt hash, empty when login is disabled
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// UserFilter narrows user listings. Zero values match everything.
type UserFilter struct {
	Status UserStatus
	Role   Role
}

func (f UserFilter) Matches(u *User) bool {
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	if f.Role != "" && !u.Roles.Has(f.Role) {
		return false
	}
	return true
}
