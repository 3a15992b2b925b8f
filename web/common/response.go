package common

type SuccessResponse[T any] struct {
	Data T `json:"data"`
}

func NewSuccessResponse[T any](data T) *SuccessResponse[T] {
	return &SuccessResponse[T]{
		Data: data,
	}
}

type Pagination struct {
	Total int64 `json:"total"`
}

// SearchResponse is a list body. Clients that only read data ignore the
// pagination block.
type SearchResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewSearchResponse[T any](data []T) *SearchResponse[T] {
	if data == nil {
		data = []T{}
	}
	return &SearchResponse[T]{
		Data: data,
		Pagination: Pagination{
			Total: int64(len(data)),
		},
	}
}
