package model

type Customer struct {
	BaseModel
	FullName    string `gorm:"type:varchar(255);not null" json:"full_name" validate:"required"`
	PhoneNumber string `gorm:"type:varchar(50);uniqueIndex;not null" json:"phone_number" validate:"required"`
	Email       string `gorm:"type:varchar(255)" json:"email,omitempty" validate:"omitempty,email"`
	Address     string `gorm:"type:text" json:"address,omitempty"`
}
