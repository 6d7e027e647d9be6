// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/paiban/hupai/pkg/errors"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
		"fields":  err.Fields,
	})
}

// toAppError 把任意错误规整为 AppError
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var verrs *apperrors.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.ToAppError()
	}
	return apperrors.Wrap(err, apperrors.CodeInternal, "内部错误")
}
