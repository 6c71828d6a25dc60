package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler   projectHandler
	blogPostHandler  blogPostHandler
	contactHandler   contactHandler
	analyticsHandler analyticsHandler
	adminHandler     adminHandler
	mediaHandler     mediaHandler
	healthHandler    healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"project not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Missing required field: title"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// MessageResponse confirms an operation that has no other result
type MessageResponse struct {
	Message string `json:"message" example:"Project deleted successfully"`
}
