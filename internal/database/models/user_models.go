package models

import "time"

// Role is the single canonical employee role. Checks against it are strict
// enum equality.
type Role string

const (
	RoleAdmin  Role = "administrador"
	RoleWaiter Role = "mesero"
	RoleCook   Role = "cocinero"
	RoleClient Role = "cliente"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWaiter, RoleCook, RoleClient:
		return true
	}
	return false
}

type Employee struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Username  string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email     string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Name      string `gorm:"type:varchar(100)"`
	LastName  string `gorm:"type:varchar(100)"`
	Cedula    string `gorm:"type:varchar(20);uniqueIndex;not null"`
	Role      Role   `gorm:"type:varchar(20);not null;default:'mesero'"`
	Active    bool   `gorm:"not null;default:true"`
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
