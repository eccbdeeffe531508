package responses

import (
	"net/http"

	"brewhouse/internal/structs"
)

var (
	Success     = structs.Response{Status: http.StatusOK, Message: "success"}
	BadRequest  = structs.Response{Status: http.StatusBadRequest, Message: "bad request"}
	NotFound    = structs.Response{Status: http.StatusNotFound, Message: "not found"}
	Retryable   = structs.Response{Status: http.StatusConflict, Message: "please try again"}
	InternalErr = structs.Response{Status: http.StatusInternalServerError, Message: "internal error"}
)

// Invalid is BadRequest with the specific validation reason attached.
// Validation failures are always surfaced with their cause, never silently
// corrected.
func Invalid(err error) structs.Response {
	return structs.Response{Status: http.StatusBadRequest, Message: err.Error()}
}
