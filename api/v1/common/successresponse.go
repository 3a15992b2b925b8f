package common

// SuccessResponse is the envelope of every successful API body.
type SuccessResponse[T any] struct {
	Data T `json:"data"`
}
