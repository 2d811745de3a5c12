package components

import (
	"poorito-booking/internal/handler"
	"poorito-booking/internal/handler/api"
	reqdto "poorito-booking/internal/handler/dto/request"
	"poorito-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewMountainHandler,
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(
		reqdto.RegisterValidations,
		handler.NewRouter,
	),
)

func NewHandlers(auth *api.AuthHandler, mountain *api.MountainHandler, booking *api.BookingHandler) handler.Handlers {
	return handler.Handlers{
		Auth:     auth,
		Mountain: mountain,
		Booking:  booking,
	}
}
