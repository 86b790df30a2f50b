package property

type PropertyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Email    string `json:"email"`
	Timezone string `json:"timezone"`
	IsActive bool   `json:"is_active"`
}

type UpdatePropertyRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Timezone string `json:"timezone"`
	IsActive *bool  `json:"is_active"`
}
