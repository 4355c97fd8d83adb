package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"codearena/internal/contextutils"
	"codearena/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE CONFIGURATION
// ===============================

// Config holds configuration for the response system
type Config struct {
	PrettyJSON         bool   `json:"pretty_json"`
	IncludeRequestID   bool   `json:"include_request_id"`
	IncludeTimestamp   bool   `json:"include_timestamp"`
	APIVersion         string `json:"api_version"`
	MaskInternalErrors bool   `json:"mask_internal_errors"`
}

// DefaultConfig returns production-ready response configuration
func DefaultConfig() *Config {
	return &Config{
		PrettyJSON:         false,
		IncludeRequestID:   true,
		IncludeTimestamp:   true,
		APIVersion:         "v1",
		MaskInternalErrors: true,
	}
}

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse represents a standardized API response
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
	Version   string       `json:"version,omitempty"`
}

// ErrorDetail represents error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder constructs standardized responses
type Builder struct {
	config *Config
	logger *zap.Logger
}

// NewBuilder creates a new response builder
func NewBuilder(config *Config, logger *zap.Logger) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Builder{
		config: config,
		logger: logger,
	}
}

// Success creates a successful API response
func (b *Builder) Success(ctx context.Context, data interface{}) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		RequestID: b.getRequestID(ctx),
		Timestamp: b.getTimestamp(),
		Version:   b.config.APIVersion,
	}
}

// Error creates an error response from a service error
func (b *Builder) Error(ctx context.Context, err error) *APIResponse {
	errorDetail := b.convertError(err)
	b.logError(ctx, err, errorDetail)

	return &APIResponse{
		Success:   false,
		Error:     errorDetail,
		RequestID: b.getRequestID(ctx),
		Timestamp: b.getTimestamp(),
		Version:   b.config.APIVersion,
	}
}

// ===============================
// HTTP RESPONSE WRITERS
// ===============================

// WriteJSON writes a JSON response with appropriate headers
func (b *Builder) WriteJSON(w http.ResponseWriter, r *http.Request, response *APIResponse, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)

	if statusCode == http.StatusNoContent {
		return
	}

	encoder := json.NewEncoder(w)
	if b.config.PrettyJSON {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(response); err != nil {
		b.logger.Error("Failed to encode JSON response",
			zap.Error(err),
			zap.String("request_id", b.getRequestID(r.Context())),
		)
	}
}

// WriteSuccess writes a successful JSON response
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.WriteJSON(w, r, b.Success(r.Context(), data), http.StatusOK)
}

// WriteCreated writes a successful creation response
func (b *Builder) WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.WriteJSON(w, r, b.Success(r.Context(), data), http.StatusCreated)
}

// WriteNoContent writes a successful no-content response
func (b *Builder) WriteNoContent(w http.ResponseWriter, r *http.Request) {
	b.WriteJSON(w, r, nil, http.StatusNoContent)
}

// WriteError writes an error response with the status code the error maps to
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	response := b.Error(r.Context(), err)
	b.WriteJSON(w, r, response, b.getStatusCodeFromError(err))
}

// ===============================
// UTILITY METHODS
// ===============================

// convertError converts an error to its wire representation
func (b *Builder) convertError(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	if serviceErr := services.GetServiceError(err); serviceErr != nil {
		detail := &ErrorDetail{
			Type:    serviceErr.Type,
			Message: serviceErr.Message,
			Code:    serviceErr.Code,
			Details: serviceErr.Details,
		}

		// Internal causes never leak to clients in production.
		if b.config.MaskInternalErrors && serviceErr.Type == "INTERNAL_ERROR" {
			detail.Message = "An internal error occurred"
			detail.Details = nil
		}

		return detail
	}

	message := err.Error()
	if b.config.MaskInternalErrors {
		message = "An unexpected error occurred"
	}

	return &ErrorDetail{
		Type:    "INTERNAL_ERROR",
		Message: message,
	}
}

// getStatusCodeFromError determines the HTTP status code for an error
func (b *Builder) getStatusCodeFromError(err error) int {
	if serviceErr := services.GetServiceError(err); serviceErr != nil {
		return serviceErr.GetStatusCode()
	}
	return http.StatusInternalServerError
}

func (b *Builder) getRequestID(ctx context.Context) string {
	if !b.config.IncludeRequestID {
		return ""
	}
	return contextutils.GetRequestID(ctx)
}

func (b *Builder) getTimestamp() int64 {
	if !b.config.IncludeTimestamp {
		return 0
	}
	return time.Now().Unix()
}

// logError logs at a level matching the error class
func (b *Builder) logError(ctx context.Context, err error, errorDetail *ErrorDetail) {
	requestID := b.getRequestID(ctx)

	switch errorDetail.Type {
	case "VALIDATION_ERROR", "BUSINESS_ERROR", "CONFLICT", "NOT_FOUND":
		b.logger.Warn("Request error",
			zap.String("request_id", requestID),
			zap.String("error_type", errorDetail.Type),
			zap.String("error_message", errorDetail.Message),
			zap.String("error_code", errorDetail.Code),
		)
	case "INTERNAL_ERROR":
		b.logger.Error("Internal error",
			zap.String("request_id", requestID),
			zap.String("error_type", errorDetail.Type),
			zap.Error(err),
		)
	default:
		b.logger.Info("Request completed with error",
			zap.String("request_id", requestID),
			zap.String("error_type", errorDetail.Type),
			zap.String("error_message", errorDetail.Message),
		)
	}
}
