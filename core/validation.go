// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"math"
	"strings"
)

// ValidateCandidate validates a Candidate according to domain rules.
//
// Validation rules:
//   - Username must not be blank
//   - Follower, video and view counts must not be negative
//   - EngagementRate must be a number between 0 and 100
//
// NOT validated:
//   - ID (0 is valid; the store derives it from the username)
//   - Handles and URLs (free text from upstream sources)
func ValidateCandidate(c *Candidate) error {
	if c == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}

	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyUsername)
	}

	counts := []struct {
		name  string
		value int64
	}{
		{"instagram_followers", c.InstagramFollowers},
		{"youtube_subscribers", c.YouTubeSubscribers},
		{"tiktok_followers", c.TikTokFollowers},
		{"video_count", c.VideoCount},
		{"total_views", c.TotalViews},
	}
	for _, count := range counts {
		if count.value < 0 {
			return fmt.Errorf("%w: %w: %s=%d", ErrInvalidCandidate, ErrNegativeCount, count.name, count.value)
		}
	}

	if err := ValidateEngagementRate(c.EngagementRate); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}

	return nil
}

// ValidateEngagementRate checks that a rate is a number in [0,100].
func ValidateEngagementRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 100 {
		return fmt.Errorf("%w: value %v", ErrInvalidEngagementRate, rate)
	}
	return nil
}

// ValidatePlatform validates that a Platform has a known value.
func ValidatePlatform(p Platform) error {
	switch p {
	case PlatformInstagram, PlatformYouTube, PlatformTikTok:
		return nil
	}
	return fmt.Errorf("%w: value %q", ErrInvalidPlatform, string(p))
}
