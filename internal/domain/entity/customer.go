package entity

// Customer is the invoice recipient record.
type Customer struct {
	ID        string `json:"id"`
	Company   string `json:"company"`
	Contact   string `json:"contact"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
