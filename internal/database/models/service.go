package models

type ServiceCategory string

const (
	ServiceCategoryPowder  ServiceCategory = "powder"
	ServiceCategoryCeramic ServiceCategory = "ceramic"
	ServiceCategoryPrep    ServiceCategory = "prep"
)

// Service is a catalog entry. Jobs and estimates never reference it live;
// they snapshot name and price into their own join rows.
type Service struct {
	Base
	Name     string          `gorm:"uniqueIndex;not null" json:"name"`
	Category ServiceCategory `gorm:"not null;index" json:"category"`
	Price    float64         `gorm:"not null" json:"price"`
}

func (Service) TableName() string {
	return "services"
}
