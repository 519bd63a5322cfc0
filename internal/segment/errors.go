package segment

import "fmt"

// UnknownCategoryError reports a label outside a closed set. It is always
// recovered by defaulting; callers log it.
type UnknownCategoryError struct {
	Kind  string
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s category %q", e.Kind, e.Value)
}
