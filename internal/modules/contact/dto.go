package contact

type CreateContactRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Position  string `json:"position"`
	CompanyID *int64 `json:"company_id"`
	Notes     string `json:"notes"`
}

type UpdateContactRequest struct {
	Name      string  `json:"name"`
	Email     *string `json:"email" binding:"omitempty"`
	Phone     *string `json:"phone"`
	Position  *string `json:"position"`
	CompanyID *int64  `json:"company_id"`
	Notes     *string `json:"notes"`
}
