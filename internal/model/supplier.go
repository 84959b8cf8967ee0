package model

type Supplier struct {
	BaseModel
	Name          string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ContactPerson string `gorm:"type:varchar(255)" json:"contact_person"`
	Phone         string `gorm:"type:varchar(50)" json:"phone"`
	Email         string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Address       string `gorm:"type:text" json:"address"`
}

// UnknownSupplierName is rendered when a product points at a supplier that no longer exists.
const UnknownSupplierName = "Unknown"

// DefaultSuppliers is the starter set loaded into an empty store.
func DefaultSuppliers() []Supplier {
	return []Supplier{
		{
			Name:          "Global Tech Solutions",
			ContactPerson: "John Doe",
			Phone:         "555-0101",
			Email:         "john@globaltech.com",
			Address:       "123 Innovation Dr, SF",
		},
		{
			Name:          "Premium Parts Co.",
			ContactPerson: "Jane Smith",
			Phone:         "555-0202",
			Email:         "sales@premiumparts.com",
			Address:       "456 Industrial Way, NY",
		},
	}
}
