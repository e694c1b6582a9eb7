package dataservice

// ErrorKind categorizes a failed operation so callers can branch on outcome
// class instead of parsing messages.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindStore
	KindConcurrency
	KindCancelled
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation_error"
	case KindUnauthorized:
		return "unauthorized_access"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store_error"
	case KindConcurrency:
		return "concurrency_error"
	case KindCancelled:
		return "operation_cancelled"
	default:
		return "unknown_error"
	}
}

// Result is the uniform outcome envelope for every data-service operation.
// A failure carries a categorized kind and message; its value is always the
// zero value.
type Result[T any] struct {
	OK           bool      `json:"ok"`
	Value        T         `json:"value,omitempty"`
	ErrorMessage string    `json:"error,omitempty"`
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
}

// Success wraps a payload in a successful result.
func Success[T any](value T) Result[T] {
	return Result[T]{OK: true, Value: value}
}

// Failure builds a categorized failure with an empty payload.
func Failure[T any](kind ErrorKind, message string) Result[T] {
	return Result[T]{OK: false, ErrorMessage: message, ErrorKind: kind}
}

// Page is one window of a filtered result set plus the paging arithmetic the
// UI needs.
type Page[T any] struct {
	Items       []T  `json:"items"`
	TotalCount  int  `json:"total_count"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPage computes the derived paging fields. TotalPages is
// ceil(total/pageSize); a page past the end simply has no items.
func NewPage[T any](items []T, total, page, pageSize int) Page[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Page[T]{
		Items:       items,
		TotalCount:  total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
