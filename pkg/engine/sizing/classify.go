package sizing

import (
	"math"

	"github.com/DrSkyle/stowage/pkg/config"
	"github.com/DrSkyle/stowage/pkg/engine/flow"
)

// fallbackHours buffers flows of unknown direction.
const fallbackHours = 24

// RetentionHours returns the buffer hours for a direction.
func RetentionHours(d Direction, r config.RetentionConfig) float64 {
	switch d {
	case Input:
		return r.InputHours
	case Output:
		return r.OutputHours
	default:
		return fallbackHours
	}
}

// Classify turns a ware flow into a storage row. Zero flows and flows
// without a ware are not classified.
func Classify(f flow.WareFlow, r config.RetentionConfig) (Row, bool) {
	if f.Ware == nil || f.Amount == 0 {
		return Row{}, false
	}

	dir := Input
	if f.Amount > 0 {
		dir = Output
	}
	hourly := math.Abs(f.Amount)
	perHour := f.Ware.Volume * hourly

	return Row{
		Ware:          f.Ware,
		WareID:        f.Ware.ID,
		WareName:      f.Ware.Name,
		Direction:     dir,
		HourlyAmount:  hourly,
		VolumePerHour: perHour,
		TotalVolume:   perHour * RetentionHours(dir, r),
		CargoType:     f.Ware.CargoType(),
	}, true
}

// ClassifyAll classifies flows in order, dropping the ones Classify rejects.
func ClassifyAll(flows []flow.WareFlow, r config.RetentionConfig) []Row {
	r = r.Normalize()
	rows := make([]Row, 0, len(flows))
	for _, f := range flows {
		if row, ok := Classify(f, r); ok {
			rows = append(rows, row)
		}
	}
	return rows
}
