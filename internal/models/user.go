package models

type User struct {
	BaseModel
	Email             string     `gorm:"uniqueIndex;not null"`
	PasswordHash      string     `gorm:"not null"`
	FullName          string
	Role              UserRole   `gorm:"type:varchar(20);not null"`
	Status            UserStatus `gorm:"type:varchar(20);default:'pending'"`
	IsVerified        bool       `gorm:"default:false"`
	VerificationToken string

	// Relations
	Jobs         []Job         `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Applications []Application `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE"`
}
