package api

import (
	"net/http"

	reqdto "poorito-booking/internal/handler/dto/request"
	resdto "poorito-booking/internal/handler/dto/response"
	"poorito-booking/internal/handler/httperr"
	"poorito-booking/internal/handler/middleware"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/usecase/commands"
	"poorito-booking/internal/usecase/queries"
	"poorito-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "Idempotent-Replayed"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Validate, price and store a pending booking. Replays the original booking when the Idempotency-Key was already used with the same payload.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID for safe retries"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Success 200 {object} resdto.BookingResponse "Idempotent replay"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	idempotencyKey, err := parseIdempotencyKey(c)
	if err != nil {
		abortBadRequest(c, err, "Idempotency-Key must be a UUID")
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	result, err := h.bookingCommands.Create(c.Request.Context(), actor, req, idempotencyKey)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	response, err := resdto.FromBookingView(result.Booking)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	if result.IsReplayed {
		c.Header(replayedHeader, "true")
		c.JSON(http.StatusOK, response)
		return
	}
	c.Header("Location", "/api/bookings/"+response.ID.String())
	c.JSON(http.StatusCreated, response)
}

// @Summary List my bookings
// @Description Newest first, keyset paginated
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param after query string false "Cursor from next_cursor"
// @Param limit query int false "Page size (1-200)"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var q reqdto.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBindError(c, err)
		return
	}

	var cursor *queries.Cursor
	if q.After != "" {
		cursor = &queries.Cursor{After: q.After}
	}

	items, next, err := h.bookingQueries.ListByUser(c.Request.Context(), actor, cursor, q.Limit)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	response, err := resdto.FromBookingList(items, next)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "Invalid booking ID format")
	if !ok {
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	h.respondBooking(c, view)
}

// @Summary Update booking status
// @Description Admin only: confirm, reject or complete a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingStatusRequest true "Target status"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id} [patch]
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "Invalid booking ID format")
	if !ok {
		return
	}

	var req reqdto.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	view, err := h.bookingCommands.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	h.respondBooking(c, view)
}

// @Summary Cancel booking
// @Description The owner cancels a confirmed booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id} [delete]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "Invalid booking ID format")
	if !ok {
		return
	}

	view, err := h.bookingCommands.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	h.respondBooking(c, view)
}

// @Summary Get booking receipt
// @Description JSON receipt, or a PDF when format=pdf
// @Tags bookings
// @Produce json
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param format query string false "json (default) or pdf"
// @Success 200 {object} resdto.ReceiptResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id}/receipt [get]
func (h *BookingHandler) GetReceipt(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "Invalid booking ID format")
	if !ok {
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "pdf":
		pdf, receipt, err := h.bookingQueries.ReceiptPDF(c.Request.Context(), actor, id)
		if err != nil {
			abortWithUseCaseError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+receipt.ReceiptNumber+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
	case "json":
		receipt, err := h.bookingQueries.Receipt(c.Request.Context(), actor, id)
		if err != nil {
			abortWithUseCaseError(c, err)
			return
		}
		response, err := resdto.FromReceiptView(receipt)
		if err != nil {
			abortWithUseCaseError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)
	default:
		abortBadRequest(c, errs.New("unsupported receipt format"), "format must be json or pdf")
	}
}

func (h *BookingHandler) respondBooking(c *gin.Context, view *queries.BookingView) {
	response, err := resdto.FromBookingView(view)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// requireActor reads the caller set by the auth middleware.
func requireActor(c *gin.Context) (actor shared.Actor, ok bool) {
	actor, ok = middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("actor missing from context"), "Internal server error", nil)
	}
	return actor, ok
}

func parseIdempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	raw := c.GetHeader(idempotencyKeyHeader)
	if raw == "" {
		return nil, nil
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
