package staff

type CreateStaffRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Role         string `json:"role" binding:"required"`
	SupervisorID string `json:"supervisor_id" binding:"omitempty,uuid"`
}

type UpdateStaffRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Role         string `json:"role" binding:"required"`
	SupervisorID string `json:"supervisor_id" binding:"omitempty,uuid"`
	IsActive     *bool  `json:"is_active"`
}

type StaffResponse struct {
	ID           string `json:"id"`
	StaffNumber  string `json:"staff_number"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PropertyID   string `json:"property_id"`
	SupervisorID string `json:"supervisor_id,omitempty"`
	IsActive     bool   `json:"is_active"`
}
