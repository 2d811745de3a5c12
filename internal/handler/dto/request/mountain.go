package request

type ListMountainsQuery struct {
	Difficulty *string `form:"difficulty" binding:"omitempty,oneof=Easy Moderate Hard Expert"`
}

type AvailabilityQuery struct {
	Start string `form:"start" binding:"required,isodate"`
	End   string `form:"end" binding:"required,isodate"`
}

type PricingQuery struct {
	Type         string `form:"type" binding:"required,bookingtype"`
	Participants int    `form:"participants"`
}
