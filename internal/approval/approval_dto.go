package approval

type SubmitRequest struct {
	EntityType string            `json:"entity_type" binding:"required"`
	EntityID   string            `json:"entity_id" binding:"required,uuid"`
	Metadata   map[string]string `json:"metadata"`
}

type ActionRequest struct {
	Action    string  `json:"action" binding:"required"`
	Comment   *string `json:"comment"`
	ForwardTo *string `json:"forward_to"`
}

type StepResponse struct {
	ID           string  `json:"id"`
	StepOrder    int     `json:"step_order"`
	AssigneeID   *string `json:"assignee_id,omitempty"`
	AssigneeRole string  `json:"assignee_role"`
	Status       string  `json:"status"`
	Comment      *string `json:"comment,omitempty"`
	ActedAt      *string `json:"acted_at,omitempty"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

type RequestResponse struct {
	ID                string            `json:"id"`
	PropertyID        string            `json:"property_id"`
	RequestNumber     string            `json:"request_number"`
	EntityType        string            `json:"entity_type"`
	EntityID          string            `json:"entity_id"`
	RequesterID       string            `json:"requester_id"`
	SupervisorID      *string           `json:"supervisor_id,omitempty"`
	CurrentAssigneeID *string           `json:"current_assignee_id,omitempty"`
	Status            string            `json:"status"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	SubmittedAt       string            `json:"submitted_at"`
	CompletedAt       *string           `json:"completed_at,omitempty"`
}

type RequestDetailResponse struct {
	RequestResponse
	Steps    []StepResponse    `json:"steps"`
	Comments []CommentResponse `json:"comments"`
}
