package api

import (
	"net/http"

	reqdto "poorito-booking/internal/handler/dto/request"
	resdto "poorito-booking/internal/handler/dto/response"
	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type MountainHandler struct {
	mountainQueries     queries.MountainQueries
	availabilityQueries queries.AvailabilityQueries
}

func NewMountainHandler(mountainQueries queries.MountainQueries, availabilityQueries queries.AvailabilityQueries) *MountainHandler {
	return &MountainHandler{
		mountainQueries:     mountainQueries,
		availabilityQueries: availabilityQueries,
	}
}

// @Summary List mountains
// @Description List the mountain catalog, optionally filtered by difficulty
// @Tags mountains
// @Produce json
// @Param difficulty query string false "Easy, Moderate, Hard or Expert"
// @Success 200 {array} resdto.MountainResponse
// @Failure 400 {object} httperr.Response
// @Router /mountains [get]
func (h *MountainHandler) ListMountains(c *gin.Context) {
	var q reqdto.ListMountainsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBindError(c, err)
		return
	}

	views, err := h.mountainQueries.List(c.Request.Context(), queries.MountainFilters{Difficulty: q.Difficulty})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	response, err := resdto.FromMountainList(views)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get mountain
// @Tags mountains
// @Produce json
// @Param id path string true "Mountain ID"
// @Success 200 {object} resdto.MountainResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /mountains/{id} [get]
func (h *MountainHandler) GetMountain(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid mountain ID format")
	if !ok {
		return
	}

	view, err := h.mountainQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	response, err := resdto.FromMountainView(view)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get mountain availability
// @Description Per-date joiner slots and exclusive locks for an inclusive date range
// @Tags mountains
// @Produce json
// @Param id path string true "Mountain ID"
// @Param start query string true "First date (YYYY-MM-DD)"
// @Param end query string true "Last date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /mountains/{id}/availability [get]
func (h *MountainHandler) GetAvailability(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid mountain ID format")
	if !ok {
		return
	}

	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBindError(c, err)
		return
	}
	// both already passed the isodate rule
	start, _ := calendar.Parse(q.Start)
	end, _ := calendar.Parse(q.End)

	view, err := h.availabilityQueries.GetAvailability(c.Request.Context(), id, start, end)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Quote a price
// @Description Price a joiner or exclusive booking for this mountain
// @Tags mountains
// @Produce json
// @Param id path string true "Mountain ID"
// @Param type query string true "joiner or exclusive"
// @Param participants query int false "Party size for joiner bookings"
// @Success 200 {object} resdto.PricingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /mountains/{id}/pricing [get]
func (h *MountainHandler) GetPricing(c *gin.Context) {
	id, ok := parseIDParam(c, "Invalid mountain ID format")
	if !ok {
		return
	}

	var q reqdto.PricingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBindError(c, err)
		return
	}

	view, err := h.mountainQueries.Quote(c.Request.Context(), id, q.Type, q.Participants)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPricingView(view))
}
