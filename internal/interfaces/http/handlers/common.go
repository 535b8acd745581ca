package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/turtacn/hydromoment/pkg/errors"
	"github.com/turtacn/hydromoment/pkg/types/common"
)

// DefaultMaxBodySize bounds request bodies when the handler is not given a
// limit.
const DefaultMaxBodySize int64 = 8 << 20

var validate = validator.New()

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeData wraps data in the success envelope.
func writeData[T any](w http.ResponseWriter, r *http.Request, statusCode int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = chimw.GetReqID(r.Context())
	writeJSON(w, statusCode, resp)
}

// writeError writes the error envelope with an explicit status.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code errors.ErrorCode, message string) {
	resp := common.NewErrorResponse(code.String(), message)
	resp.RequestID = chimw.GetReqID(r.Context())
	writeJSON(w, statusCode, resp)
}

// writeAppError maps an error to its HTTP status through its code. Errors
// that are not AppErrors are masked.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *errors.AppError
	if !stderrors.As(err, &ae) {
		writeError(w, r, http.StatusInternalServerError, errors.ErrCodeInternal, "internal server error")
		return
	}
	status := errors.HTTPStatusForCode(ae.Code)
	msg := ae.Message
	if status >= http.StatusInternalServerError {
		msg = errors.DefaultMessageForCode(ae.Code)
	} else if ae.Detail != "" {
		msg += ": " + ae.Detail
	}
	writeError(w, r, status, ae.Code, msg)
}

// decodeJSON reads a bounded JSON body into dst and validates its struct
// tags. On failure it writes the response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBody int64, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, errors.ErrCodeBadRequest,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, r, http.StatusBadRequest, errors.ErrCodeBadRequest, "malformed JSON body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, errors.ErrCodeValidation, formatValidationError(err))
		return false
	}
	return true
}

// formatValidationError reports the first failed field.
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	e := verrs[0]
	switch e.Tag() {
	case "required":
		return e.Field() + ": field is required"
	case "min":
		return fmt.Sprintf("%s: must be at least %s", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s: must not exceed %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s]", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s: validation failed (%s)", e.Field(), e.Tag())
	}
}

// queryInt parses a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.InvalidParam(name + " must be a non-negative integer").WithDetail(name + "=" + v)
	}
	return n, nil
}

//Personal.AI order the ending
