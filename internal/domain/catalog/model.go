package catalog

// MedicalService is a bookable offering such as "Cardiology".
type MedicalService struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}
