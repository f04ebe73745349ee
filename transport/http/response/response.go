package response

import (
	"encoding/json"
	"net/http"
	"vcardops/shared/constant"
	"vcardops/shared/failure"
	"vcardops/shared/logger"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Status is the envelope of every plain success or error reply.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WithMessage sends a status envelope; codes from 400 up are reported as errors.
func WithMessage(writer http.ResponseWriter, code int, message string) {
	status := constant.ResponseStatusSuccess
	if code >= http.StatusBadRequest {
		status = constant.ResponseStatusError
	}

	response(writer, code, Status{Status: status, Message: message})
}

// WithJSON sends a response containing a JSON object under "data"
func WithJSON(writer http.ResponseWriter, code int, jsonPayload interface{}) {
	response(writer, code, Data[any]{Data: &jsonPayload})
}

// WithPayload sends jsonPayload as the whole body, without an envelope.
func WithPayload(writer http.ResponseWriter, code int, jsonPayload interface{}) {
	response(writer, code, jsonPayload)
}

// WithError sends {status:"error", message} with the code carried by err.
func WithError(writer http.ResponseWriter, err error) {
	WithMessage(writer, failure.GetCode(err), err.Error())
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

// WithAttachment streams content as a download named filename.
func WithAttachment(writer http.ResponseWriter, contentType, filename string, content []byte) {
	writer.Header().Set(constant.RequestHeaderContentType, contentType)
	writer.Header().Set(constant.RequestHeaderContentDisposition, `attachment; filename="`+filename+`"`)
	writer.WriteHeader(http.StatusOK)

	if _, err := writer.Write(content); err != nil {
		logger.ErrorWithStack(err)
	}
}

func response(writer http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
