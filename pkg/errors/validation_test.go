package errors

import (
	"math"
	"testing"
)

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		lng, lat float64
		wantErr  bool
	}{
		{"valid", 12.5, 41.9, false},
		{"unbounded longitude allowed", 541, 0, false},
		{"latitude too high", 0, 91, true},
		{"latitude too low", 0, -90.5, true},
		{"nan longitude", math.NaN(), 0, true},
		{"infinite latitude", 0, math.Inf(1), true},
		{"poles allowed", 0, 90, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.lng, tt.lat)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%v, %v) error = %v, wantErr %v", tt.lng, tt.lat, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidCoordinate {
				t.Errorf("code = %q, want %q", GetCode(err), ErrCodeInvalidCoordinate)
			}
		})
	}
}

func TestValidateCamera(t *testing.T) {
	if err := ValidateCamera(0, 0, 3, 800, 600); err != nil {
		t.Errorf("valid camera rejected: %v", err)
	}
	if err := ValidateCamera(0, 0, -1, 800, 600); !Is(err, ErrCodeInvalidCamera) {
		t.Errorf("negative zoom not rejected: %v", err)
	}
	if err := ValidateCamera(0, 0, 3, 0, 600); !Is(err, ErrCodeInvalidCamera) {
		t.Errorf("zero width not rejected: %v", err)
	}
	if err := ValidateCamera(0, 95, 3, 800, 600); !Is(err, ErrCodeInvalidCoordinate) {
		t.Errorf("bad latitude not rejected: %v", err)
	}
}

func TestValidateContentSize(t *testing.T) {
	if err := ValidateContentSize(0, 0); err != nil {
		t.Errorf("unmeasured size rejected: %v", err)
	}
	if err := ValidateContentSize(-1, 10); err == nil {
		t.Error("negative width accepted")
	}
}

func TestValidateOpacity(t *testing.T) {
	for _, v := range []float64{0, 0.5, 1} {
		if err := ValidateOpacity(v); err != nil {
			t.Errorf("ValidateOpacity(%v) = %v", v, err)
		}
	}
	for _, v := range []float64{-0.1, 1.1, math.NaN()} {
		if err := ValidateOpacity(v); !Is(err, ErrCodeInvalidOpacity) {
			t.Errorf("ValidateOpacity(%v) not rejected", v)
		}
	}
}
