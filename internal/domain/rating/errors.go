package rating

import (
	"errors"
	"fmt"

	"github.com/okian/cancha/internal/domain/model"
)

// ErrInvalidAttributeValue reports an attribute outside [1,99].
var ErrInvalidAttributeValue = errors.New("invalid attribute value")

// AttributeError names the offending attribute.
type AttributeError struct {
	Attribute model.Attribute
	Value     int
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s: %s=%d outside [%d,%d]",
		ErrInvalidAttributeValue, e.Attribute, e.Value, model.MinAttribute, model.MaxAttribute)
}

// Unwrap lets errors.Is match ErrInvalidAttributeValue.
func (e *AttributeError) Unwrap() error { return ErrInvalidAttributeValue }
