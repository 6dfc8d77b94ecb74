package search

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
)

// PlatformActivityThreshold is the follower count a platform account must
// exceed to satisfy a platform filter.
const PlatformActivityThreshold = 100

// Filter keys accepted by ParseFilters.
const (
	FilterPlatform      = "platform"
	FilterCategory      = "category"
	FilterMinFollowers  = "min_followers"
	FilterMaxFollowers  = "max_followers"
	FilterEngagementMin = "engagement_min"
	FilterMinVideoCount = "min_video_count"
	FilterMinTotalViews = "min_total_views"
	FilterHasYouTubeURL = "has_youtube_url"
	FilterVerified      = "verified"
)

// ParseFilters converts loosely typed filter values into a FilterRecord.
// Blank values are treated as unset. Values that cannot be parsed leave
// their field unset and produce a warning.
func ParseFilters(raw map[string]string) (core.FilterRecord, []core.FilterWarning) {
	var (
		f        core.FilterRecord
		warnings []core.FilterWarning
	)
	warn := func(key, value, reason string) {
		warnings = append(warnings, core.FilterWarning{Field: key, Value: value, Reason: reason})
	}

	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := strings.TrimSpace(raw[key])
		if value == "" {
			continue
		}

		switch key {
		case FilterPlatform:
			p, err := core.ParsePlatform(value)
			if err != nil {
				warn(key, value, "unknown platform")
				continue
			}
			f.Platform = &p

		case FilterCategory:
			f.Category = &value

		case FilterMinFollowers, FilterMaxFollowers, FilterMinVideoCount, FilterMinTotalViews:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				warn(key, value, "not an integer")
				continue
			}
			switch key {
			case FilterMinFollowers:
				f.MinFollowers = &n
			case FilterMaxFollowers:
				f.MaxFollowers = &n
			case FilterMinVideoCount:
				f.MinVideoCount = &n
			case FilterMinTotalViews:
				f.MinTotalViews = &n
			}

		case FilterEngagementMin:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				warn(key, value, "not a number")
				continue
			}
			f.EngagementMin = &v

		case FilterHasYouTubeURL, FilterVerified:
			var b bool
			switch strings.ToLower(value) {
			case "true":
				b = true
			case "false":
			default:
				warn(key, value, `expected "true" or "false"`)
				continue
			}
			if key == FilterVerified {
				f.Verified = &b
			} else {
				f.HasYouTubeURL = &b
			}

		default:
			warn(key, value, "unknown filter")
		}
	}
	return f, warnings
}

// TranslateFilters converts f into an AND of store predicates.
// Numeric bounds apply as given, even when no candidate can satisfy them.
// Set fields with no meaning as a constraint (unknown platform, blank
// category, NaN) are skipped with a warning.
// It returns a nil predicate when nothing constrains the search.
func TranslateFilters(f core.FilterRecord) (storage.Predicate, []core.FilterWarning) {
	var (
		preds    []storage.Predicate
		warnings []core.FilterWarning
	)
	warn := func(key, value, reason string) {
		warnings = append(warnings, core.FilterWarning{Field: key, Value: value, Reason: reason})
	}

	if f.Platform != nil {
		p := *f.Platform
		if err := core.ValidatePlatform(p); err != nil {
			warn(FilterPlatform, string(p), "unknown platform")
		} else {
			preds = append(preds, storage.All{
				storage.NonEmpty{Field: storage.HandleField(p)},
				storage.Compare{Field: storage.FollowersField(p), Op: storage.OpGreater, Value: PlatformActivityThreshold},
			})
		}
	}

	if f.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*f.Category))
		if category == "" {
			warn(FilterCategory, *f.Category, "blank category")
		} else {
			preds = append(preds, storage.Contains{Field: storage.FieldCategory, Substring: category})
		}
	}

	counts := []struct {
		key   string
		value *int64
		field storage.NumericField
		op    storage.Op
	}{
		{FilterMinFollowers, f.MinFollowers, storage.FieldTotalFollowers, storage.OpGreaterEqual},
		{FilterMaxFollowers, f.MaxFollowers, storage.FieldTotalFollowers, storage.OpLessEqual},
		{FilterMinVideoCount, f.MinVideoCount, storage.FieldVideoCount, storage.OpGreaterEqual},
		{FilterMinTotalViews, f.MinTotalViews, storage.FieldTotalViews, storage.OpGreaterEqual},
	}
	for _, c := range counts {
		if c.value == nil {
			continue
		}
		preds = append(preds, storage.Compare{Field: c.field, Op: c.op, Value: float64(*c.value)})
	}

	if f.EngagementMin != nil {
		v := *f.EngagementMin
		if math.IsNaN(v) {
			warn(FilterEngagementMin, strconv.FormatFloat(v, 'g', -1, 64), "not a number")
		} else {
			preds = append(preds, storage.Compare{Field: storage.FieldEngagementRate, Op: storage.OpGreaterEqual, Value: v})
		}
	}

	if f.HasYouTubeURL != nil {
		if *f.HasYouTubeURL {
			preds = append(preds, storage.NonEmpty{Field: storage.FieldYouTubeURL})
		} else {
			preds = append(preds, storage.Empty{Field: storage.FieldYouTubeURL})
		}
	}

	if f.Verified != nil {
		preds = append(preds, storage.Verified{Value: *f.Verified})
	}

	return storage.And(preds...), warnings
}
