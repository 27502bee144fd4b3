package annotation

import "errors"

var (
	// ErrAnnotationNotFound indicates the annotation doesn't exist.
	ErrAnnotationNotFound = errors.New("annotation not found")
	// ErrInvalidInput indicates invalid annotation input.
	ErrInvalidInput = errors.New("invalid annotation input")
	// ErrStoreClosed indicates the store was closed and accepts no new annotations.
	ErrStoreClosed = errors.New("annotation store closed")
	// ErrStylesRegistered indicates priority styles were already registered.
	ErrStylesRegistered = errors.New("priority styles already registered")
)
