package models

// Customer may be created standalone or implicitly when a job or estimate
// references a new name. Jobs and notes keep nullable references so deleting
// a customer never deletes their history.
type Customer struct {
	Base
	Name    string `gorm:"not null;index" json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	Jobs  []Job  `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"-"`
	Notes []Note `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}
