package gateway

import "fmt"

// FetchError is any non-success response from the backend. Callers do
// not distinguish status codes; every one means "the call failed".
type FetchError struct {
	Op     string
	Status int
	URL    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: backend returned %d", e.Op, e.Status)
}
