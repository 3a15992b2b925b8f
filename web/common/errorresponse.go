package common

// ErrorResponse is the {"detail": "..."} failure body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func NewErrorResponse(detail string) *ErrorResponse {
	return &ErrorResponse{
		Detail: detail,
	}
}
