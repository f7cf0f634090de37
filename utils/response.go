package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse is the envelope every endpoint answers with.
type JSONResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Respond writes a JSON envelope with the given HTTP status.
func Respond(ctx *gin.Context, status int, code int, message string, data any) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success answers 200 with code 0.
func Success(ctx *gin.Context, data any) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// SuccessEnvelope wraps data the way Success does, for payloads that get cached verbatim.
func SuccessEnvelope(data any) JSONResponse {
	return JSONResponse{Code: 0, Message: "success", Data: data}
}

// Error answers with a business error code and no data.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// ErrorWithData answers with a business error code and extra context for the client.
func ErrorWithData(ctx *gin.Context, status int, code int, message string, data any) {
	Respond(ctx, status, code, message, data)
}
