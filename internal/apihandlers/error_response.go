package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError defines standard error response
// Example: { "error": { "code": "not_found", "message": "No route for /x" } }
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// JSONError sends a structured error response
func JSONError(ctx *gin.Context, status int, code, msg string) {
	ctx.JSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

func NotFound(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusNotFound, "not_found", msg)
}

// PageError re-renders the form with the submitted text and an error message.
func PageError(ctx *gin.Context, status int, text, msg string) {
	ctx.HTML(status, indexTemplate, pageData{Text: text, Error: msg})
}

// Convenience wrappers
func BadRequest(ctx *gin.Context, text, msg string) {
	PageError(ctx, http.StatusBadRequest, text, msg)
}

func Internal(ctx *gin.Context, text, msg string) {
	PageError(ctx, http.StatusInternalServerError, text, msg)
}
