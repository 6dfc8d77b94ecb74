package core

import (
	"fmt"
	"strings"
)

// Platform identifies a social platform a candidate publishes on.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
)

// Platforms lists every supported platform in a stable order.
var Platforms = []Platform{PlatformInstagram, PlatformYouTube, PlatformTikTok}

// ParsePlatform converts a case-insensitive name into a Platform.
func ParsePlatform(name string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(name)))
	if err := ValidatePlatform(p); err != nil {
		return "", err
	}
	return p, nil
}

// FilterRecord holds the structured constraints of a search.
// A nil field is unset and imposes no constraint.
type FilterRecord struct {
	Platform      *Platform `json:"platform,omitempty"`
	Category      *string   `json:"category,omitempty"`
	MinFollowers  *int64    `json:"min_followers,omitempty"`
	MaxFollowers  *int64    `json:"max_followers,omitempty"`
	EngagementMin *float64  `json:"engagement_min,omitempty"`
	MinVideoCount *int64    `json:"min_video_count,omitempty"`
	MinTotalViews *int64    `json:"min_total_views,omitempty"`
	HasYouTubeURL *bool     `json:"has_youtube_url,omitempty"`
	Verified      *bool     `json:"verified,omitempty"`
}

// IsEmpty reports whether no field is set.
func (f FilterRecord) IsEmpty() bool {
	return f == FilterRecord{}
}

// Merge returns f with every unset field taken from other.
func (f FilterRecord) Merge(other FilterRecord) FilterRecord {
	if f.Platform == nil {
		f.Platform = other.Platform
	}
	if f.Category == nil {
		f.Category = other.Category
	}
	if f.MinFollowers == nil {
		f.MinFollowers = other.MinFollowers
	}
	if f.MaxFollowers == nil {
		f.MaxFollowers = other.MaxFollowers
	}
	if f.EngagementMin == nil {
		f.EngagementMin = other.EngagementMin
	}
	if f.MinVideoCount == nil {
		f.MinVideoCount = other.MinVideoCount
	}
	if f.MinTotalViews == nil {
		f.MinTotalViews = other.MinTotalViews
	}
	if f.HasYouTubeURL == nil {
		f.HasYouTubeURL = other.HasYouTubeURL
	}
	if f.Verified == nil {
		f.Verified = other.Verified
	}
	return f
}

// FilterWarning records a filter value that was ignored.
type FilterWarning struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (w FilterWarning) String() string {
	return fmt.Sprintf("%s=%q ignored: %s", w.Field, w.Value, w.Reason)
}

// Err returns the warning as an error wrapping ErrInvalidFilterValue.
func (w FilterWarning) Err() error {
	return fmt.Errorf("%w: %s", ErrInvalidFilterValue, w.String())
}
