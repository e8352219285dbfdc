package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"xmlsearch/internal/logging"
	"xmlsearch/internal/model"
)

var (
	errDocumentNotFound = errors.New("document not found or expired")
	errFileMissing      = errors.New("no file uploaded")
	errFileTooLarge     = errors.New("uploaded file exceeds size limit")
	errBadRequest       = errors.New("invalid request body")
)

// errorResponse 统一错误响应
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// classify 将错误映射为 HTTP 状态码与错误码
func classify(err error) (int, string) {
	var perr *model.ParseError
	switch {
	case errors.Is(err, model.ErrMissingInput), errors.Is(err, errFileMissing):
		return http.StatusBadRequest, "missing_input"
	case errors.As(err, &perr):
		return http.StatusUnprocessableEntity, "parse_error"
	case errors.Is(err, model.ErrNoData):
		return http.StatusUnprocessableEntity, "no_data"
	case errors.Is(err, errDocumentNotFound):
		return http.StatusNotFound, "document_not_found"
	case errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge, "file_too_large"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed",
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, errorResponse{Code: code, Error: msg})
}
