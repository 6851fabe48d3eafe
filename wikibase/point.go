package wikibase

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// CoordinateOrder selects which WKT component is the latitude.
type CoordinateOrder int

const (
	// LatLong reads the first component as latitude.
	LatLong CoordinateOrder = iota
	// LongLat reads the first component as longitude.
	LongLat
)

// DefaultOrder is the order used when a caller has no preference.
// Only API boundaries (CLI, configuration) should fall back to it.
const DefaultOrder = LatLong

// Other returns the opposite order.
func (o CoordinateOrder) Other() CoordinateOrder {
	if o == LatLong {
		return LongLat
	}
	return LatLong
}

// String returns the configuration spelling of the order.
func (o CoordinateOrder) String() string {
	if o == LongLat {
		return "long-lat"
	}
	return "lat-long"
}

// ParseCoordinateOrder parses "lat-long" or "long-lat".
func ParseCoordinateOrder(s string) (CoordinateOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lat-long", "latlong", "lat_long":
		return LatLong, nil
	case "long-lat", "longlat", "long_lat":
		return LongLat, nil
	default:
		return DefaultOrder, fmt.Errorf("unknown coordinate order %q", s)
	}
}

var (
	// ErrInvalidPoint is matched by every point parse failure.
	ErrInvalidPoint = errors.New("invalid point literal")
	// ErrGlobeUnsupported is returned when formatting a point that carries a globe.
	ErrGlobeUnsupported = errors.New("point with globe cannot be formatted as plain WKT")
)

// InvalidPointError reports a literal that is not a WKT point.
type InvalidPointError struct {
	Literal string
	Reason  string
}

func (e *InvalidPointError) Error() string {
	return fmt.Sprintf("invalid point literal %q: %s", e.Literal, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidPoint) hold.
func (e *InvalidPointError) Is(target error) bool {
	return target == ErrInvalidPoint
}

// Point is a coordinate as found in Wikibase WKT literals.
// Coordinates are kept as the original decimal strings.
type Point struct {
	Longitude string
	Latitude  string
	// Globe is the globe IRI, empty for Earth.
	Globe string
}

var componentSeparator = regexp.MustCompile(`\s*,\s*|\s+`)

// ParsePoint parses "POINT(a b)", optionally preceded by "<globe> ".
func ParsePoint(literal string, order CoordinateOrder) (Point, error) {
	invalid := func(reason string) (Point, error) {
		return Point{}, &InvalidPointError{Literal: literal, Reason: reason}
	}

	rest := literal
	var globe string
	if strings.HasPrefix(rest, "<") {
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return invalid("unterminated globe")
		}
		if end == 1 {
			return invalid("empty globe")
		}
		if end+1 >= len(rest) || rest[end+1] != ' ' {
			return invalid("globe must be followed by a space")
		}
		globe = rest[1:end]
		rest = rest[end+2:]
	}

	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(strings.ToLower(rest), "point(") || !strings.HasSuffix(rest, ")") {
		return invalid("expected POINT(...)")
	}
	interior := strings.TrimSpace(rest[len("point(") : len(rest)-1])
	if interior == "" {
		return invalid("no coordinates")
	}
	coords := componentSeparator.Split(interior, -1)
	if len(coords) != 2 {
		return invalid(fmt.Sprintf("expected 2 coordinates, got %d", len(coords)))
	}
	p := NewPoint([2]string{coords[0], coords[1]}, globe, order)
	return p, nil
}

// NewPoint builds a point from two ordered components without parsing.
func NewPoint(components [2]string, globe string, order CoordinateOrder) Point {
	if order == LongLat {
		return Point{Longitude: components[0], Latitude: components[1], Globe: globe}
	}
	return Point{Latitude: components[0], Longitude: components[1], Globe: globe}
}

// Format renders the point as "POINT(a b)" in the given order.
// Points with a globe fail with ErrGlobeUnsupported.
func (p Point) Format(order CoordinateOrder) (string, error) {
	if p.Globe != "" {
		return "", fmt.Errorf("%w: <%s>", ErrGlobeUnsupported, p.Globe)
	}
	first, second := p.Latitude, p.Longitude
	if order == LongLat {
		first, second = p.Longitude, p.Latitude
	}
	return "POINT(" + first + " " + second + ")", nil
}
