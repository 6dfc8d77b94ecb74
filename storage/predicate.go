package storage

import (
	"strings"

	"github.com/poiesic/creatorsearch/core"
)

// TextField names a string attribute of a candidate.
type TextField string

const (
	FieldUsername        TextField = "username"
	FieldFullName        TextField = "full_name"
	FieldCategory        TextField = "category"
	FieldBio             TextField = "bio"
	FieldInstagramHandle TextField = "instagram_handle"
	FieldYouTubeChannel  TextField = "youtube_channel"
	FieldTikTokHandle    TextField = "tiktok_handle"
	FieldYouTubeURL      TextField = "youtube_url"
)

// Value returns the field's value on c.
func (f TextField) Value(c *core.Candidate) string {
	switch f {
	case FieldUsername:
		return c.Username
	case FieldFullName:
		return c.FullName
	case FieldCategory:
		return c.Category
	case FieldBio:
		return c.Bio
	case FieldInstagramHandle:
		return c.InstagramHandle
	case FieldYouTubeChannel:
		return c.YouTubeChannel
	case FieldTikTokHandle:
		return c.TikTokHandle
	case FieldYouTubeURL:
		return c.YouTubeURL
	}
	return ""
}

// HandleField returns the handle field of a platform.
func HandleField(p core.Platform) TextField {
	switch p {
	case core.PlatformInstagram:
		return FieldInstagramHandle
	case core.PlatformYouTube:
		return FieldYouTubeChannel
	case core.PlatformTikTok:
		return FieldTikTokHandle
	}
	return ""
}

// NumericField names a numeric attribute of a candidate.
type NumericField string

const (
	FieldInstagramFollowers NumericField = "instagram_followers"
	FieldYouTubeSubscribers NumericField = "youtube_subscribers"
	FieldTikTokFollowers    NumericField = "tiktok_followers"
	FieldTotalFollowers     NumericField = "total_followers"
	FieldEngagementRate     NumericField = "engagement_rate"
	FieldVideoCount         NumericField = "video_count"
	FieldTotalViews         NumericField = "total_views"
)

// Value returns the field's value on c.
func (f NumericField) Value(c *core.Candidate) float64 {
	switch f {
	case FieldInstagramFollowers:
		return float64(c.InstagramFollowers)
	case FieldYouTubeSubscribers:
		return float64(c.YouTubeSubscribers)
	case FieldTikTokFollowers:
		return float64(c.TikTokFollowers)
	case FieldTotalFollowers:
		return float64(c.TotalFollowers())
	case FieldEngagementRate:
		return c.EngagementRate
	case FieldVideoCount:
		return float64(c.VideoCount)
	case FieldTotalViews:
		return float64(c.TotalViews)
	}
	return 0
}

// FollowersField returns the follower-count field of a platform.
func FollowersField(p core.Platform) NumericField {
	switch p {
	case core.PlatformInstagram:
		return FieldInstagramFollowers
	case core.PlatformYouTube:
		return FieldYouTubeSubscribers
	case core.PlatformTikTok:
		return FieldTikTokFollowers
	}
	return ""
}

// Op is a numeric comparison operator.
type Op string

const (
	OpGreaterEqual Op = ">="
	OpGreater      Op = ">"
	OpLessEqual    Op = "<="
)

// Predicate is a store-independent condition on a candidate.
// Stores either evaluate Match directly or translate the tree into
// their own query language; both must agree.
type Predicate interface {
	Match(c *core.Candidate) bool
}

// All matches when every child matches. An empty All matches everything.
type All []Predicate

func (p All) Match(c *core.Candidate) bool {
	for _, child := range p {
		if !child.Match(c) {
			return false
		}
	}
	return true
}

// Any matches when at least one child matches. An empty Any matches nothing.
type Any []Predicate

func (p Any) Match(c *core.Candidate) bool {
	for _, child := range p {
		if child.Match(c) {
			return true
		}
	}
	return false
}

// Contains is a case-insensitive substring test.
type Contains struct {
	Field     TextField
	Substring string // lowercase
}

func (p Contains) Match(c *core.Candidate) bool {
	return strings.Contains(strings.ToLower(p.Field.Value(c)), p.Substring)
}

// NonEmpty matches when the field holds a non-blank value.
type NonEmpty struct {
	Field TextField
}

func (p NonEmpty) Match(c *core.Candidate) bool {
	return strings.TrimSpace(p.Field.Value(c)) != ""
}

// Empty matches when the field is blank.
type Empty struct {
	Field TextField
}

func (p Empty) Match(c *core.Candidate) bool {
	return strings.TrimSpace(p.Field.Value(c)) == ""
}

// Compare tests a numeric field against a constant.
type Compare struct {
	Field NumericField
	Op    Op
	Value float64
}

func (p Compare) Match(c *core.Candidate) bool {
	v := p.Field.Value(c)
	switch p.Op {
	case OpGreaterEqual:
		return v >= p.Value
	case OpGreater:
		return v > p.Value
	case OpLessEqual:
		return v <= p.Value
	}
	return false
}

// Verified matches candidates whose verified flag equals Value.
type Verified struct {
	Value bool
}

func (p Verified) Match(c *core.Candidate) bool {
	return c.Verified == p.Value
}

// And combines predicates, dropping nils and flattening nested All.
// It returns nil when nothing constrains the result.
func And(preds ...Predicate) Predicate {
	var out All
	for _, p := range preds {
		switch v := p.(type) {
		case nil:
		case All:
			if inner := And(v...); inner != nil {
				if all, ok := inner.(All); ok {
					out = append(out, all...)
				} else {
					out = append(out, inner)
				}
			}
		default:
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

// Matches evaluates p, treating nil as match-everything.
func Matches(p Predicate, c *core.Candidate) bool {
	return p == nil || p.Match(c)
}
