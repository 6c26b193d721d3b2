package errors

import "math"

// ValidateCoordinate checks that a longitude/latitude pair is usable.
// Longitude is deliberately unbounded: values past [-180, 180] address
// other world copies. Latitude outside [-90, 90] has no geographic meaning
// and is rejected, as are NaN and infinite components.
func ValidateCoordinate(lng, lat float64) error {
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return New(ErrCodeInvalidCoordinate, "longitude must be a finite number")
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return New(ErrCodeInvalidCoordinate, "latitude must be a finite number")
	}
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidCoordinate, "latitude %v out of range [-90, 90]", lat)
	}
	return nil
}

// ValidateCamera checks camera parameters for the service surface.
func ValidateCamera(lng, lat, zoom, width, height float64) error {
	if err := ValidateCoordinate(lng, lat); err != nil {
		return err
	}
	if math.IsNaN(zoom) || zoom < 0 || zoom > 25 {
		return New(ErrCodeInvalidCamera, "zoom %v out of range [0, 25]", zoom)
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidCamera, "viewport %vx%v must be positive", width, height)
	}
	return nil
}

// ValidateContentSize checks an overlay's measured box. Zero is allowed (an
// unmeasured overlay skips placement); negative extents are not.
func ValidateContentSize(width, height float64) error {
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidInput, "content size %vx%v must not be negative", width, height)
	}
	return nil
}

// ValidateOpacity checks an occlusion opacity value.
func ValidateOpacity(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidOpacity, "opacity %v out of range [0, 1]", v)
	}
	return nil
}
