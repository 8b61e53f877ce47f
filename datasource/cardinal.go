package datasource

import "math"

var cardinalDirections = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CardinalDirection returns the eight-point compass label for a direction in
// degrees. Halfway values round to the even sector, so 22.5 is "N" and 67.5 is "E".
func CardinalDirection(degrees float64) string {
	sector := int(math.RoundToEven(degrees/45)) % len(cardinalDirections)
	if sector < 0 {
		sector += len(cardinalDirections)
	}
	return cardinalDirections[sector]
}
