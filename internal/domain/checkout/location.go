// internal/domain/checkout/location.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// LocationCode classifies a geolocation failure
type LocationCode string

const (
	LocationPermissionDenied    LocationCode = "permission_denied"
	LocationPositionUnavailable LocationCode = "position_unavailable"
	LocationTimeout             LocationCode = "timeout"
	LocationUnsupported         LocationCode = "unsupported"
)

// LocationError is returned when the current position cannot be determined
type LocationError struct {
	Code LocationCode
	Err  error
}

func (e *LocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("location %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("location %s", e.Code)
}

func (e *LocationError) Unwrap() error {
	return e.Err
}

// Message returns the text shown to the shopper
func (e *LocationError) Message() string {
	switch e.Code {
	case LocationPermissionDenied:
		return "Location permission was denied"
	case LocationPositionUnavailable:
		return "Your position is currently unavailable"
	case LocationTimeout:
		return "Locating you took too long"
	default:
		return "Location is not supported on this device"
	}
}

// Locator resolves the device position once
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// Geocoder turns a position into a short human-readable address
type Geocoder interface {
	Reverse(ctx context.Context, at Coordinates) (string, error)
}

// ReportedPosition is the outcome of the browser geolocation call as posted by
// the front-end: either a position or one of the PositionError codes
type ReportedPosition struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	ErrorCode string   `json:"error_code"`
}

// Locate implements Locator
func (r ReportedPosition) Locate(ctx context.Context) (Coordinates, error) {
	if r.ErrorCode != "" {
		return Coordinates{}, &LocationError{Code: codeFromReport(r.ErrorCode)}
	}
	if r.Lat == nil || r.Lng == nil {
		return Coordinates{}, &LocationError{Code: LocationPositionUnavailable, Err: errors.New("no position reported")}
	}
	return Coordinates{Lat: *r.Lat, Lng: *r.Lng}, nil
}

// codeFromReport maps the W3C PositionError codes and their names
func codeFromReport(code string) LocationCode {
	switch code {
	case "1", "PERMISSION_DENIED", string(LocationPermissionDenied):
		return LocationPermissionDenied
	case "2", "POSITION_UNAVAILABLE", string(LocationPositionUnavailable):
		return LocationPositionUnavailable
	case "3", "TIMEOUT", string(LocationTimeout):
		return LocationTimeout
	default:
		return LocationUnsupported
	}
}

// Detector performs a single bounded current-location detection
type Detector struct {
	geocoder Geocoder
	timeout  time.Duration
	logger   *logrus.Logger
}

// NewDetector creates a detector; a nil geocoder yields coordinate-only addresses
func NewDetector(geocoder Geocoder, timeout time.Duration, logger *logrus.Logger) *Detector {
	return &Detector{
		geocoder: geocoder,
		timeout:  timeout,
		logger:   logger,
	}
}

type locateResult struct {
	at  Coordinates
	err error
}

// DetectCurrentLocation asks the locator for one position, reverse geocodes it
// and returns the transient "current" address. A failed lookup falls back to a
// coordinate descriptor; a failed position is a *LocationError.
func (d *Detector) DetectCurrentLocation(ctx context.Context, locator Locator) (Address, error) {
	if locator == nil {
		return Address{}, &LocationError{Code: LocationUnsupported}
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan locateResult, 1)
	go func() {
		at, err := locator.Locate(ctx)
		done <- locateResult{at: at, err: err}
	}()

	var at Coordinates
	select {
	case res := <-done:
		if res.err != nil {
			var locErr *LocationError
			if errors.As(res.err, &locErr) {
				return Address{}, locErr
			}
			if errors.Is(res.err, context.DeadlineExceeded) {
				return Address{}, &LocationError{Code: LocationTimeout, Err: res.err}
			}
			return Address{}, &LocationError{Code: LocationPositionUnavailable, Err: res.err}
		}
		at = res.at
	case <-ctx.Done():
		return Address{}, &LocationError{Code: LocationTimeout, Err: ctx.Err()}
	}

	if !at.Valid() {
		return Address{}, &LocationError{Code: LocationPositionUnavailable, Err: fmt.Errorf("invalid coordinates %v", at)}
	}

	return Address{
		Label:       d.describe(ctx, at),
		Coordinates: &at,
	}, nil
}

func (d *Detector) describe(ctx context.Context, at Coordinates) string {
	fallback := fmt.Sprintf("%.5f, %.5f", at.Lat, at.Lng)
	if d.geocoder == nil {
		return fallback
	}

	label, err := d.geocoder.Reverse(ctx, at)
	if err != nil || label == "" {
		if d.logger != nil {
			d.logger.WithError(err).WithFields(logrus.Fields{
				"lat": at.Lat,
				"lng": at.Lng,
			}).Warn("Reverse geocoding failed, using coordinates")
		}
		return fallback
	}
	return label
}
