package request

import (
	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/pkg/calendar"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations adds the booking rules to gin's validator engine.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		return err
	}
	return v.RegisterValidation("bookingtype", bookingType)
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := calendar.Parse(fl.Field().String())
	return err == nil
}

func bookingType(fl validator.FieldLevel) bool {
	_, err := booking.NewType(fl.Field().String())
	return err == nil
}
