package core

import (
	"errors"
	"math"
	"testing"
)

func TestValidateCandidate(t *testing.T) {
	tests := []struct {
		name      string
		candidate *Candidate
		wantErr   error
	}{
		{
			name:      "valid candidate",
			candidate: &Candidate{Username: "techguru", EngagementRate: 4.5, InstagramFollowers: 1000},
			wantErr:   nil,
		},
		{
			name:      "valid candidate with zero id",
			candidate: &Candidate{Id: 0, Username: "x"},
			wantErr:   nil,
		},
		{
			name:      "nil candidate",
			candidate: nil,
			wantErr:   ErrInvalidCandidate,
		},
		{
			name:      "blank username",
			candidate: &Candidate{Username: "   "},
			wantErr:   ErrEmptyUsername,
		},
		{
			name:      "negative followers",
			candidate: &Candidate{Username: "a", TikTokFollowers: -1},
			wantErr:   ErrNegativeCount,
		},
		{
			name:      "negative views",
			candidate: &Candidate{Username: "a", TotalViews: -10},
			wantErr:   ErrNegativeCount,
		},
		{
			name:      "engagement above 100",
			candidate: &Candidate{Username: "a", EngagementRate: 101},
			wantErr:   ErrInvalidEngagementRate,
		},
		{
			name:      "engagement NaN",
			candidate: &Candidate{Username: "a", EngagementRate: math.NaN()},
			wantErr:   ErrInvalidEngagementRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCandidate(tt.candidate)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCandidate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCandidate() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidCandidate) {
				t.Errorf("ValidateCandidate() error should wrap ErrInvalidCandidate, got %v", err)
			}
		})
	}
}

func TestValidatePlatform(t *testing.T) {
	for _, p := range Platforms {
		if err := ValidatePlatform(p); err != nil {
			t.Errorf("ValidatePlatform(%q) = %v", p, err)
		}
	}

	if err := ValidatePlatform("snapchat"); !errors.Is(err, ErrInvalidPlatform) {
		t.Errorf("ValidatePlatform(snapchat) = %v, want ErrInvalidPlatform", err)
	}
}

func TestFilterWarning_Err(t *testing.T) {
	w := FilterWarning{Field: "min_followers", Value: "abc", Reason: "not an integer"}
	if !errors.Is(w.Err(), ErrInvalidFilterValue) {
		t.Errorf("Err() should wrap ErrInvalidFilterValue")
	}
	if w.String() != `min_followers="abc" ignored: not an integer` {
		t.Errorf("String() = %q", w.String())
	}
}
