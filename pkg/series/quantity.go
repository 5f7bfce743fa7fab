package series

import "strings"

// Quantity identifies a monitored measurement
type Quantity int

const (
	CO2 Quantity = iota
	Temperature
	Humidity
)

// Quantities lists every monitored quantity in display order
var Quantities = []Quantity{CO2, Temperature, Humidity}

// Slug returns the URL-safe identifier
func (q Quantity) Slug() string {
	switch q {
	case CO2:
		return "co2"
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	default:
		return "unknown"
	}
}

// Name returns the display name
func (q Quantity) Name() string {
	switch q {
	case CO2:
		return "CO2"
	case Temperature:
		return "Temperature"
	case Humidity:
		return "Humidity"
	default:
		return "Unknown"
	}
}

// Unit returns the measurement unit
func (q Quantity) Unit() string {
	switch q {
	case CO2:
		return "ppm"
	case Temperature:
		return "°C"
	case Humidity:
		return "%"
	default:
		return ""
	}
}

func (q Quantity) String() string {
	return q.Slug()
}

// ParseQuantity looks up a quantity by slug (case-insensitive)
func ParseQuantity(s string) (Quantity, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, q := range Quantities {
		if q.Slug() == s {
			return q, true
		}
	}
	// Accept a couple of common aliases
	switch s {
	case "temp":
		return Temperature, true
	case "rh", "hum":
		return Humidity, true
	}
	return 0, false
}
