package codes

import (
	"net/http"

	"github.com/ethrahere/curatoor/core"
)

var statuses = map[core.ErrorCode]int{
	core.ErrInvalidArgument:    http.StatusBadRequest,
	core.ErrInvalidFID:         http.StatusBadRequest,
	core.ErrNoPendingSigner:    http.StatusBadRequest,
	core.ErrSignerNotConfirmed: http.StatusForbidden,
	core.ErrUserNotFound:       http.StatusNotFound,
	core.ErrSignerNotFound:     http.StatusNotFound,
	core.ErrHubTimeout:         http.StatusRequestTimeout,
	core.ErrStaleSigner:        http.StatusConflict,
	core.ErrHubUnavailable:     http.StatusBadGateway,
	core.ErrPersistence:        http.StatusInternalServerError,
	core.ErrUnknown:            http.StatusInternalServerError,
}

// Status http status of an error code, 500 for unknown codes
func Status(code core.ErrorCode) int {
	if status, ok := statuses[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// Get error code and http status carried by err
func Get(err error) (core.ErrorCode, int) {
	code := core.Code(err)
	return code, Status(code)
}
