package models

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrInvalidRequest is returned when a prediction request fails validation
var ErrInvalidRequest = errors.New("invalid prediction request")

// City represents a supported city
type City string

const (
	CityMumbai    City = "Mumbai"
	CityDelhi     City = "Delhi"
	CityBangalore City = "Bangalore"
	CityGoa       City = "Goa"
	CityJaipur    City = "Jaipur"
	CityHyderabad City = "Hyderabad"
	CityChennai   City = "Chennai"
	CityKolkata   City = "Kolkata"
)

// Cities lists the supported cities in display order
var Cities = []City{
	CityMumbai, CityDelhi, CityBangalore, CityGoa,
	CityJaipur, CityHyderabad, CityChennai, CityKolkata,
}

func (c City) Valid() bool {
	for _, known := range Cities {
		if c == known {
			return true
		}
	}
	return false
}

// PropertyType represents a supported property type
type PropertyType string

const (
	PropertyApartment      PropertyType = "Apartment"
	PropertyVilla          PropertyType = "Villa"
	PropertyBungalow       PropertyType = "Bungalow"
	PropertyStudio         PropertyType = "Studio"
	PropertyHeritageHaveli PropertyType = "Heritage Haveli"
	PropertyBeachHouse     PropertyType = "Beach House"
)

// PropertyTypes lists the supported property types in display order
var PropertyTypes = []PropertyType{
	PropertyApartment, PropertyVilla, PropertyBungalow,
	PropertyStudio, PropertyHeritageHaveli, PropertyBeachHouse,
}

func (p PropertyType) Valid() bool {
	for _, known := range PropertyTypes {
		if p == known {
			return true
		}
	}
	return false
}

// DefaultRoomType is used by the quick search path
const DefaultRoomType = "Entire home/apt"

// PredictionRequest represents one submission to the prediction endpoint
type PredictionRequest struct {
	City         City         `json:"city"`
	PropertyType PropertyType `json:"propertyType"`
	RoomType     string       `json:"roomType"`
	Accommodates int          `json:"accommodates"`
	Bedrooms     int          `json:"bedrooms"`
	Bathrooms    float64      `json:"bathrooms"`
	Beds         int          `json:"beds"`
	Amenities    []string     `json:"amenities,omitempty"`
}

// QuickSearchRequest builds the request sent by the quick search bar
func QuickSearchRequest(city City, propertyType PropertyType, guests int) PredictionRequest {
	return PredictionRequest{
		City:         city,
		PropertyType: propertyType,
		RoomType:     DefaultRoomType,
		Accommodates: guests,
		Bedrooms:     1,
		Bathrooms:    1,
		Beds:         1,
	}
}

// Validate checks enum membership and numeric ranges
func (r PredictionRequest) Validate() error {
	switch {
	case !r.City.Valid():
		return fmt.Errorf("%w: unsupported city %q", ErrInvalidRequest, r.City)
	case !r.PropertyType.Valid():
		return fmt.Errorf("%w: unsupported property type %q", ErrInvalidRequest, r.PropertyType)
	case strings.TrimSpace(r.RoomType) == "":
		return fmt.Errorf("%w: room type is required", ErrInvalidRequest)
	case r.Accommodates < 1:
		return fmt.Errorf("%w: accommodates must be at least 1", ErrInvalidRequest)
	case r.Bedrooms < 0:
		return fmt.Errorf("%w: bedrooms must not be negative", ErrInvalidRequest)
	case r.Beds < 0:
		return fmt.Errorf("%w: beds must not be negative", ErrInvalidRequest)
	case r.Bathrooms < 0:
		return fmt.Errorf("%w: bathrooms must not be negative", ErrInvalidRequest)
	case math.Mod(r.Bathrooms*2, 1) != 0:
		return fmt.Errorf("%w: bathrooms must be a multiple of 0.5", ErrInvalidRequest)
	}
	return nil
}

// AmenityList returns the amenities as a sorted set without blanks or duplicates
func (r PredictionRequest) AmenityList() []string {
	seen := make(map[string]struct{}, len(r.Amenities))
	out := make([]string, 0, len(r.Amenities))
	for _, a := range r.Amenities {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// PredictionResult represents the outcome reported by the endpoint
type PredictionResult struct {
	Price   float64 `json:"price"`
	Success bool    `json:"success"`
}

// HistoryRecord represents one past prediction
type HistoryRecord struct {
	ID           string  `json:"id"`
	City         string  `json:"city"`
	PropertyType string  `json:"propertyType"`
	Guests       int     `json:"guests"`
	Price        float64 `json:"price"`
	Timestamp    int64   `json:"timestamp"` // epoch milliseconds
}

// SubmitPath selects which form issued a submission
type SubmitPath string

const (
	PathQuick    SubmitPath = "quick"
	PathDetailed SubmitPath = "detailed"
)

// QuickSearchInput is the body of a quick search submission
type QuickSearchInput struct {
	City         City         `json:"city"`
	PropertyType PropertyType `json:"propertyType"`
	Guests       int          `json:"guests"`
}

// SubmitResponse reports a finished submission. A failed submission is not
// an HTTP error; it carries Success false and no price.
type SubmitResponse struct {
	Success bool     `json:"success"`
	Price   *float64 `json:"price"`
	Stale   bool     `json:"stale"`
	Seq     uint64   `json:"seq"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
