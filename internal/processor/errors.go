package processor

import "errors"

// Ошибки processor runtime.
var (
	// ErrHandlerNotFound — handler с таким именем не зарегистрирован.
	ErrHandlerNotFound = errors.New("handler not found")
)
