package dto

var serviceCategories = map[string]bool{
	"powder": true, "ceramic": true, "prep": true,
}

type CreateServiceRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

func (r CreateServiceRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if !serviceCategories[r.Category] {
		errors["category"] = "Category must be powder, ceramic, or prep"
	}
	if r.Price < 0 {
		errors["price"] = "Price cannot be negative"
	}

	return errors
}

type UpdateServiceRequest struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

func (r UpdateServiceRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name != nil && *r.Name == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.Category != nil && !serviceCategories[*r.Category] {
		errors["category"] = "Category must be powder, ceramic, or prep"
	}
	if r.Price != nil && *r.Price < 0 {
		errors["price"] = "Price cannot be negative"
	}

	return errors
}

type ServiceResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     string `json:"price"`
	CreatedAt string `json:"created_at"`
}
