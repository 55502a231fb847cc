package apperr

import (
	"fmt"
	"strings"
)

// ValidationError — отсутствующие или пустые обязательные поля запроса, всегда 400.
type ValidationError struct {
	Missing []string // имена отсутствующих полей
	Msg     string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required fields: " + strings.Join(e.Missing, ", ")
	}
	return e.Msg
}

// NewValidation создает ValidationError с произвольным сообщением.
func NewValidation(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// MissingFields создает ValidationError со списком отсутствующих полей.
func MissingFields(fields ...string) *ValidationError {
	return &ValidationError{Missing: fields}
}

// NotFoundError — сущность или ссылка на нее не найдена, 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// UpstreamError — платежный процессор вернул не-2xx или нераспарсиваемое тело, 500.
// Code и Description берутся из конверта ошибки процессора, если его удалось разобрать.
type UpstreamError struct {
	Status      int
	Code        string
	Description string
}

func (e *UpstreamError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("payment gateway error: %d", e.Status)
}

// MisconfigurationError — отсутствует обязательный параметр конфигурации деплоя, 500.
// Возвращается до любого обращения к процессору.
type MisconfigurationError struct {
	Param string
}

func (e *MisconfigurationError) Error() string {
	return "server misconfiguration: " + e.Param + " missing"
}

func Misconfigured(param string) *MisconfigurationError {
	return &MisconfigurationError{Param: param}
}
