package scheduling

import "github.com/BruksfildServices01/salon-scheduler/internal/models"

// ===============================
// Value objects de preço/duração
// ===============================
//
// Matemática pura sobre o catálogo. Deltas negativos passam sem clamp;
// o que está congelado no Appointment nunca muda com edições posteriores
// do serviço ou da variação.

type ServicePrice struct {
	Base           float64 `json:"base"`
	VariationDelta float64 `json:"variation_delta"`
	Final          float64 `json:"final"`
}

type ServiceDuration struct {
	Base           int `json:"base"`
	Processing     int `json:"processing"`
	Finishing      int `json:"finishing"`
	VariationDelta int `json:"variation_delta"`
	Total          int `json:"total"`
}

// ServiceCalculation é uma perna precificada do grupo.
type ServiceCalculation struct {
	ServiceID      uint
	VariationID    *uint
	ProfessionalID uint

	Price    ServicePrice
	Duration ServiceDuration

	ExecutionOrder    int
	ExecutionFlexible bool
}

type GroupTotals struct {
	TotalPrice       float64 `json:"total_price"`
	TotalDurationMin int     `json:"total_duration_min"`
	ServiceCount     int     `json:"service_count"`
}

func PriceFor(svc *models.Service, variation *models.ServiceVariation) ServicePrice {
	p := ServicePrice{}
	if svc != nil {
		p.Base = svc.Price
	}
	if variation != nil {
		p.VariationDelta = variation.PriceDelta
	}
	p.Final = p.Base + p.VariationDelta
	return p
}

func DurationFor(svc *models.Service, variation *models.ServiceVariation) ServiceDuration {
	d := ServiceDuration{}
	if svc != nil {
		d.Base = svc.DurationMin
		d.Processing = svc.ProcessingMin
		d.Finishing = svc.FinishingMin
	}
	if variation != nil {
		d.VariationDelta = variation.DurationDeltaMin
	}
	d.Total = d.Base + d.Processing + d.Finishing + d.VariationDelta
	return d
}

// Totals soma as pernas assumindo execução sequencial.
func Totals(calcs []ServiceCalculation) GroupTotals {
	t := GroupTotals{ServiceCount: len(calcs)}
	for _, c := range calcs {
		t.TotalPrice += c.Price.Final
		t.TotalDurationMin += c.Duration.Total
	}
	return t
}
