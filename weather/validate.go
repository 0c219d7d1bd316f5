package weather

import (
	"strings"
	"unicode/utf8"
)

// MinCityLength is the shortest accepted city name, in characters
const MinCityLength = 2

// Validate trims raw input and returns it if it can be used as a city name.
// Every submission path goes through here so they all decide alike.
func Validate(raw string) (string, error) {
	city := strings.TrimSpace(raw)
	switch n := utf8.RuneCountInString(city); {
	case n == 0:
		return "", ErrEmptyInput
	case n < MinCityLength:
		return "", ErrTooShort
	}
	return city, nil
}
