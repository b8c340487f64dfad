package models

import (
	"gorm.io/datatypes"
)

type Job struct {
	BaseModel
	OwnerID     string `gorm:"type:uuid;not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	Location    string
	Tags        datatypes.JSON `gorm:"type:jsonb"`

	Owner        *User         `gorm:"foreignKey:OwnerID"`
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
}
