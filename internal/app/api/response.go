package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

// Response is the envelope of every JSON response.
type Response struct {
	Status    string        `json:"status"`
	Message   string        `json:"message"`
	Code      string        `json:"code"`
	Timestamp time.Time     `json:"timestamp"`
	Data      interface{}   `json:"data,omitempty"`
	Errors    []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail is one offending field of a rejected request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	resp.Timestamp = time.Now().UTC()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Response{Status: "success", Message: "success", Code: "ok", Data: data})
}

func writeFailure(w http.ResponseWriter, status int, code errors.ErrorCode, message string) {
	writeJSON(w, status, Response{Status: "error", Message: message, Code: code.String()})
}

// writeError maps err to a status by its category. Validation errors carry every offending field.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := Response{Status: "error", Message: err.Error()}

	var status int
	switch errors.Classify(err) {
	case errors.CategoryValidation:
		status = http.StatusBadRequest
		resp.Code = errors.GeneralBadRequestError.String()
		resp.Message = "invalid request"
		for _, d := range validationDetails(err) {
			resp.Errors = append(resp.Errors, ErrorDetail{Code: d.Code, Field: d.Field, Message: d.Message})
		}
	case errors.CategoryBusiness:
		status = http.StatusUnprocessableEntity
		resp.Code = "business_rejection"
	case errors.CategoryTransient:
		status = http.StatusServiceUnavailable
		resp.Code = "temporarily_unavailable"
	default:
		status = http.StatusInternalServerError
		resp.Code = errors.GeneralInternalServerError.String()
		resp.Message = "internal server error"
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), err,
			logger.NewField("method", r.Method),
			logger.NewField("path", r.URL.Path),
		)
	}
	writeJSON(w, status, resp)
}

func validationDetails(err error) []*errors.ErrorDetails {
	var base *errors.BaseError
	if stderrors.As(err, &base) {
		return base.GetDetails()
	}
	var details *errors.ErrorDetails
	if stderrors.As(err, &details) {
		return []*errors.ErrorDetails{details}
	}
	return nil
}
