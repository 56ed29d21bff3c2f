package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleStaff   = "staff"
)

type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	FullName   string `gorm:"column:full_name;not null" json:"full_name"`
	Email      string `gorm:"column:email;unique;not null" json:"email"`
	Password   string `gorm:"column:password;not null" json:"-"`
	Role       string `gorm:"column:role;default:student" json:"role"`
	IsStudent  bool   `gorm:"column:is_student;default:true" json:"is_student"`
	IsVerified bool   `gorm:"column:is_verified;default:false" json:"is_verified"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
