package booking

import (
	"poorito-booking/internal/domain/mountain"
	"poorito-booking/internal/pkg/money"
)

type Pricing struct {
	JoinerPricePerHead money.Money
	ExclusivePrice     money.Money
	TotalPrice         money.Money
}

type PriceCalculator interface {
	Calculate(rates mountain.Rates, bookingType Type, participants int) Pricing
}

// DefaultPriceCalculator charges the base rate for the first day and adds a
// percentage of it for every further day.
type DefaultPriceCalculator struct {
	ExtraDaySurchargePercent int64
}

func NewDefaultPriceCalculator() *DefaultPriceCalculator {
	return &DefaultPriceCalculator{
		ExtraDaySurchargePercent: 50,
	}
}

func (pc *DefaultPriceCalculator) Calculate(rates mountain.Rates, bookingType Type, participants int) Pricing {
	perHead := rates.BasePricePerHead
	if rates.TripDuration > 1 {
		extraDays := int64(rates.TripDuration - 1)
		perHead = perHead.MulRatio(100+pc.ExtraDaySurchargePercent*extraDays, 100)
	}

	exclusive := perHead.Mul(int64(rates.JoinerCapacity))
	if rates.ExclusivePrice != nil {
		exclusive = *rates.ExclusivePrice
	}

	total := perHead.Mul(int64(participants))
	if bookingType == TypeExclusive {
		total = exclusive
	}

	return Pricing{
		JoinerPricePerHead: perHead,
		ExclusivePrice:     exclusive,
		TotalPrice:         total,
	}
}
