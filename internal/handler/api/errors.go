package api

import (
	"errors"
	"log/slog"
	"net/http"
	"unicode"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/handler/httperr"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/usecase/commands"
	"poorito-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	codeValidation       = "validation_error"
	codeInvalidRequest   = "invalid_request"
	codeNotFound         = "not_found"
	codeForbidden        = "forbidden"
	codeUnauthenticated  = "unauthenticated"
	codeAvailability     = "availability_conflict"
	codeDuplicate        = "duplicate_booking"
	codeInvalidStatus    = "invalid_status_transition"
	codeIdempotency      = "idempotency_conflict"
	codeIdempotencyInUse = "idempotency_in_progress"
	codeInternal         = "internal_error"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// First match wins; order from most to least specific.
var errorMappings = []errorMapping{
	{booking.ErrAvailabilityConflict, http.StatusConflict, codeAvailability, "Requested dates are not available"},
	{booking.ErrDuplicateBooking, http.StatusConflict, codeDuplicate, "You already have a booking on these dates"},
	{booking.ErrValidation, http.StatusUnprocessableEntity, codeValidation, "Booking validation failed"},
	{booking.ErrInvalidTransition, http.StatusConflict, codeInvalidStatus, "Booking cannot move to the requested status"},
	{commands.ErrStatusNotSettable, http.StatusUnprocessableEntity, codeValidation, "Status cannot be set directly"},
	{booking.ErrNotOwner, http.StatusForbidden, codeForbidden, "Booking belongs to another user"},
	{queries.ErrBookingAccess, http.StatusForbidden, codeForbidden, "Booking belongs to another user"},
	{errs.ErrForbidden, http.StatusForbidden, codeForbidden, "Insufficient permissions"},
	{queries.ErrMountainNotFound, http.StatusNotFound, codeNotFound, "Mountain not found"},
	{queries.ErrBookingNotFound, http.StatusNotFound, codeNotFound, "Booking not found"},
	{queries.ErrInvalidCursor, http.StatusBadRequest, codeInvalidRequest, "Invalid cursor"},
	{errs.ErrIdempotencyKeyMismatch, http.StatusConflict, codeIdempotency, "Idempotency key was used with a different request"},
	{errs.ErrIdempotencyInProgress, http.StatusConflict, codeIdempotencyInUse, "A request with this idempotency key is in progress"},
	{errs.ErrUnauthenticated, http.StatusUnauthorized, codeUnauthenticated, "Authentication required"},
}

// abortWithUseCaseError maps use case errors onto the public error envelope.
func abortWithUseCaseError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) || errs.Is(err, m.target) {
			httperr.AbortWithCode(c, m.status, m.code, err, m.message, errorDetail(err))
			return
		}
	}

	slog.Error("unhandled use case error",
		"path", c.FullPath(),
		"error", err.Error(),
		"stack", errs.ExtractStackLines(err, 5),
	)
	httperr.AbortWithCode(c, http.StatusInternalServerError, codeInternal, err, "Internal server error", nil)
}

func errorDetail(err error) map[string]any {
	var (
		verr     *booking.ValidationError
		conflict *booking.AvailabilityConflictError
		dup      *booking.DuplicateBookingError
	)
	switch {
	case errors.As(err, &verr):
		return map[string]any{"field": verr.Field, "reason": verr.Reason}
	case errors.As(err, &conflict):
		dates := make([]string, len(conflict.Dates))
		for i, d := range conflict.Dates {
			dates[i] = d.String()
		}
		return map[string]any{"booking_type": conflict.BookingType.String(), "dates": dates, "reason": conflict.Reason}
	case errors.As(err, &dup):
		if dup.ExistingBookingID == uuid.Nil {
			return nil
		}
		return map[string]any{"existing_booking_id": dup.ExistingBookingID}
	}
	return nil
}

func abortBadRequest(c *gin.Context, err error, msg string) {
	httperr.AbortWithCode(c, http.StatusBadRequest, codeInvalidRequest, err, msg, nil)
}

func parseIDParam(c *gin.Context, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortBadRequest(c, err, msg)
		return uuid.Nil, false
	}
	return id, true
}

// abortBindError reports every failing field of a binding error.
func abortBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		abortBadRequest(c, err, "Invalid request format")
		return
	}
	fields := make([]map[string]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = map[string]string{"field": fieldName(fe), "rule": fe.Tag()}
	}
	httperr.AbortWithCode(c, http.StatusBadRequest, codeInvalidRequest, err, "Invalid request data", map[string]any{"fields": fields})
}

// json/form tags are not registered as field names, so snake-case the Go name.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	out := make([]rune, 0, len(name)+4)
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(rune(name[i-1])) {
				out = append(out, '_')
			}
			r = unicode.ToLower(r)
		}
		out = append(out, r)
	}
	return string(out)
}
