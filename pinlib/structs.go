package pinlib

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SourceKind tags which resolver has produced a point.
type SourceKind uint8

const (
	SourceIP SourceKind = iota + 1
	SourceCityName
	SourceCoordinate
)

var sourceKindNames = map[SourceKind]string{
	SourceIP:         "IP",
	SourceCityName:   "CITY_NAME",
	SourceCoordinate: "COORDINATE",
}

func (s SourceKind) String() string {
	if v, ok := sourceKindNames[s]; ok {
		return v
	}

	return ""
}

// Valid checks if this is one of IP, CITY_NAME or COORDINATE.
func (s SourceKind) Valid() bool {
	_, ok := sourceKindNames[s]

	return ok
}

func (s SourceKind) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown source kind %d", s)
	}

	return []byte(s.String()), nil
}

func (s *SourceKind) UnmarshalText(text []byte) error {
	kind, err := ParseSourceKind(string(text))
	if err != nil {
		return err
	}

	*s = kind

	return nil
}

// ParseSourceKind converts a name like "ip" or "CITY_NAME" into a
// SourceKind. Names are case insensitive.
func ParseSourceKind(name string) (SourceKind, error) {
	name = strings.ToUpper(strings.TrimSpace(name))

	for k, v := range sourceKindNames {
		if v == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown source kind %q", ErrInvalidInput, name)
}

type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Valid checks that latitude is within [-90, 90] and longitude is
// within [-180, 180].
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

type Bounds struct {
	SouthWest Coordinate `json:"southwest"`
	NorthEast Coordinate `json:"northeast"`
}

type CountryDetails struct {
	Alpha2Code   string `json:"alpha2_code"`
	Alpha3Code   string `json:"alpha3_code"`
	CommonName   string `json:"common_name"`
	OfficialName string `json:"official_name"`
}

// LocatedPoint is a result of successful resolution. Only Name,
// SourceKind, SourceValue, Latitude and Longitude are the data of the
// point, the rest is display details.
type LocatedPoint struct {
	Name        string     `json:"name"`
	SourceKind  SourceKind `json:"source_kind"`
	SourceValue string     `json:"source_value"`
	Latitude    float64    `json:"lat"`
	Longitude   float64    `json:"lon"`

	DisplayAddress string          `json:"display_address,omitempty"`
	City           string          `json:"city,omitempty"`
	Region         string          `json:"region,omitempty"`
	Country        string          `json:"country,omitempty"`
	CountryCode    *CountryDetails `json:"country_code,omitempty"`
	ISP            string          `json:"isp,omitempty"`
}

func (l LocatedPoint) Coordinate() Coordinate {
	return Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Query is an input of the Resolver. Value is used for IP and
// CITY_NAME, Latitude and Longitude are used for COORDINATE.
type Query struct {
	Kind      SourceKind
	Value     string
	Latitude  float64
	Longitude float64
}

// SourceValue returns a string which is stored as LocatedPoint
// SourceValue. Coordinates are formatted as "lat,lon" with the shortest
// representation which parses back into the same floats.
func (q Query) SourceValue() string {
	if q.Kind == SourceCoordinate {
		return formatFloat(q.Latitude) + "," + formatFloat(q.Longitude)
	}

	return q.Value
}

// ParseQuery builds a query from the raw input. For COORDINATE raw has
// to be a "lat,lon" literal.
func ParseQuery(kind SourceKind, raw string) (Query, error) {
	rv := Query{
		Kind:  kind,
		Value: strings.TrimSpace(raw),
	}

	switch kind {
	case SourceIP, SourceCityName:
		if rv.Value == "" {
			return rv, fmt.Errorf("%w: value is empty", ErrInvalidInput)
		}
	case SourceCoordinate:
		chunks := strings.Split(rv.Value, ",")
		if len(chunks) != 2 {
			return rv, fmt.Errorf("%w: coordinates should be lat,lon: %q", ErrInvalidInput, raw)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(chunks[0]), 64)
		if err != nil {
			return rv, fmt.Errorf("%w: incorrect latitude: %v", ErrInvalidInput, err)
		}

		lon, err := strconv.ParseFloat(strings.TrimSpace(chunks[1]), 64)
		if err != nil {
			return rv, fmt.Errorf("%w: incorrect longitude: %v", ErrInvalidInput, err)
		}

		rv.Latitude = lat
		rv.Longitude = lon
		rv.Value = ""
	default:
		return rv, fmt.Errorf("%w: unknown source kind", ErrInvalidInput)
	}

	return rv, nil
}

// IPLocation is a decoded answer of IP geolocation collaborator.
// Latitude and Longitude are nil if collaborator has not sent them.
type IPLocation struct {
	Status    string
	Message   string
	Latitude  *float64
	Longitude *float64
	City      string
	Country   string
	Region    string
	ISP       string
}

// Place is a decoded candidate of geocoding collaborator. Coordinates
// are kept as strings because this is how collaborator sends them.
type Place struct {
	Latitude    string
	Longitude   string
	DisplayName string
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func roundTo(value float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))

	return math.Round(value*pow) / pow
}
