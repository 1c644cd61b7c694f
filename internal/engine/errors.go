package engine

import "errors"

// Ошибки валидации графа.
var (
	// ErrGraphInvalid — структурный дефект графа: нет ни одного шага
	// с нулевой входящей степенью.
	ErrGraphInvalid = errors.New("invalid flow graph: no entry points")

	// ErrEmptyGraph — граф не содержит шагов.
	ErrEmptyGraph = errors.New("flow graph has no steps")
)
