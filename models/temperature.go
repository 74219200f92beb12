package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TemperatureUnit selects the display unit for formatted temperatures.
type TemperatureUnit string

const (
	UnitCelsius    TemperatureUnit = "celsius"
	UnitFahrenheit TemperatureUnit = "fahrenheit"
	UnitKelvin     TemperatureUnit = "kelvin"
)

// ParseTemperatureUnit converts a configuration string into a unit.
func ParseTemperatureUnit(s string) (TemperatureUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "celsius", "c":
		return UnitCelsius, true
	case "fahrenheit", "f":
		return UnitFahrenheit, true
	case "kelvin", "k":
		return UnitKelvin, true
	default:
		return "", false
	}
}

// Temperature is an immutable value stored canonically in Celsius.
// Equality is by Celsius value, so Temperature values are comparable with ==.
type Temperature struct {
	celsius float64
}

// Celsius constructs a temperature from degrees Celsius.
func Celsius(value float64) Temperature {
	return Temperature{celsius: value}
}

// Fahrenheit constructs a temperature from degrees Fahrenheit.
func Fahrenheit(value float64) Temperature {
	return Temperature{celsius: (value - 32) * 5 / 9}
}

// Kelvin constructs a temperature from kelvins.
func Kelvin(value float64) Temperature {
	return Temperature{celsius: value - 273.15}
}

func (t Temperature) Celsius() float64 {
	return t.celsius
}

func (t Temperature) Fahrenheit() float64 {
	return t.celsius*9/5 + 32
}

func (t Temperature) Kelvin() float64 {
	return t.celsius + 273.15
}

// In returns the value converted to the given unit.
func (t Temperature) In(unit TemperatureUnit) float64 {
	switch unit {
	case UnitFahrenheit:
		return t.Fahrenheit()
	case UnitKelvin:
		return t.Kelvin()
	default:
		return t.Celsius()
	}
}

// Format renders the temperature in the given unit with the given number of
// decimal places, e.g. "21.5°C", "70.7°F", "294.7K".
func (t Temperature) Format(unit TemperatureUnit, precision int) string {
	if precision < 0 {
		precision = 0
	}
	value := t.In(unit)
	switch unit {
	case UnitFahrenheit:
		return fmt.Sprintf("%.*f°F", precision, value)
	case UnitKelvin:
		return fmt.Sprintf("%.*fK", precision, value)
	default:
		return fmt.Sprintf("%.*f°C", precision, value)
	}
}

func (t Temperature) String() string {
	return t.Format(UnitCelsius, 1)
}

// MarshalJSON encodes the temperature as its Celsius value.
func (t Temperature) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.celsius)
}

// UnmarshalJSON decodes a Celsius value.
func (t *Temperature) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.celsius)
}
