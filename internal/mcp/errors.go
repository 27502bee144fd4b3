package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/bimtodo/internal/domain/activity"
	"github.com/rpggio/bimtodo/internal/domain/annotation"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
	"github.com/rpggio/bimtodo/internal/repository"
	"github.com/rpggio/bimtodo/internal/scene"
	"github.com/rpggio/bimtodo/internal/view"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

// Error renders the error as JSON so tool clients can parse the code.
func (e *APIError) Error() string {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(data)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, viewpoint.ErrUnsupportedCameraMode):
		return &APIError{Code: "UNSUPPORTED_CAMERA_MODE", Message: "active camera has no look-at controls", RecoveryHint: "Call set_camera_mode with perspective or orthographic"}
	case errors.Is(err, annotation.ErrAnnotationNotFound), errors.Is(err, view.ErrCardNotFound):
		return &APIError{Code: "ANNOTATION_NOT_FOUND", Message: "annotation not found", RecoveryHint: "Call list_annotations for current IDs"}
	case errors.Is(err, annotation.ErrStoreClosed):
		return &APIError{Code: "STORE_CLOSED", Message: "annotation store is closed"}
	case errors.Is(err, annotation.ErrStylesNotRegistered):
		return &APIError{Code: "STYLES_NOT_REGISTERED", Message: "priority highlight styles are not registered"}
	case errors.Is(err, annotation.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, scene.ErrInvalidProjection):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check the tool input schema"}
	case errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "not found"}
	default:
		return nil
	}
}

// toolError converts err into the error returned from a tool handler.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
