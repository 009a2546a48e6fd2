package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Account  string `gorm:"not null;unique" redis:"account"`
	Name     string `gorm:"not null" redis:"name"`
	Password string `gorm:"not null" redis:"password"`
}
