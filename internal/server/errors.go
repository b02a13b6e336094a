package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCode is the machine-readable failure kind surfaced to callers.
type ErrorCode string

const (
	CodeInvalidInput   ErrorCode = "INVALID_INPUT"
	CodeRoomNotFound   ErrorCode = "ROOM_NOT_FOUND"
	CodeWrongPassword  ErrorCode = "WRONG_PASSWORD"
	CodeGameInProgress ErrorCode = "GAME_IN_PROGRESS"
	CodeNotAuthorized  ErrorCode = "NOT_AUTHORIZED"
	CodeInvalidAction  ErrorCode = "INVALID_ACTION"
	CodePlayerNotFound ErrorCode = "PLAYER_NOT_FOUND"
	CodeDuplicateName  ErrorCode = "DUPLICATE_NAME"
	CodeInvalidPhase   ErrorCode = "INVALID_PHASE"
	CodeDatabaseError  ErrorCode = "DATABASE_ERROR"
)

type apiError struct {
	Code    ErrorCode
	Message string
}

func (e *apiError) Error() string {
	return e.Message
}

func apiErr(code ErrorCode, message string) *apiError {
	return &apiError{Code: code, Message: message}
}

func errRoomNotFound() *apiError {
	return apiErr(CodeRoomNotFound, "room not found")
}

func errPlayerNotFound() *apiError {
	return apiErr(CodePlayerNotFound, "player not found")
}

func errNotHost() *apiError {
	return apiErr(CodeNotAuthorized, "only the host can perform this action")
}

func errInvalidPhase(current, required string) *apiError {
	return apiErr(CodeInvalidPhase, "operation requires phase "+required+", room is in "+current)
}

// errorCode extracts the code from err, defaulting to INVALID_ACTION for
// uncoded engine errors.
func errorCode(err error) ErrorCode {
	var coded *apiError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInvalidAction
}

func httpStatus(code ErrorCode) int {
	switch code {
	case CodeRoomNotFound, CodePlayerNotFound:
		return http.StatusNotFound
	case CodeNotAuthorized, CodeWrongPassword:
		return http.StatusForbidden
	case CodeInvalidPhase, CodeGameInProgress, CodeInvalidAction, CodeDuplicateName:
		return http.StatusConflict
	case CodeDatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func respondError(c *gin.Context, err error) {
	code := errorCode(err)
	c.JSON(httpStatus(code), gin.H{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}
