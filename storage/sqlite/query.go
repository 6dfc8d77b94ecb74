package sqlite

import (
	"fmt"
	"strings"

	"github.com/poiesic/creatorsearch/storage"
)

// blankChars mirrors the ASCII whitespace strings.TrimSpace removes.
const blankChars = `' ' || char(9, 10, 11, 12, 13)`

var textColumns = map[storage.TextField]string{
	storage.FieldUsername:        "username",
	storage.FieldFullName:        "full_name",
	storage.FieldCategory:        "category",
	storage.FieldBio:             "bio",
	storage.FieldInstagramHandle: "instagram_handle",
	storage.FieldYouTubeChannel:  "youtube_channel",
	storage.FieldTikTokHandle:    "tiktok_handle",
	storage.FieldYouTubeURL:      "youtube_url",
}

var numericColumns = map[storage.NumericField]string{
	storage.FieldInstagramFollowers: "instagram_followers",
	storage.FieldYouTubeSubscribers: "youtube_subscribers",
	storage.FieldTikTokFollowers:    "tiktok_followers",
	storage.FieldTotalFollowers:     "total_followers",
	storage.FieldEngagementRate:     "engagement_rate",
	storage.FieldVideoCount:         "video_count",
	storage.FieldTotalViews:         "total_views",
}

// compilePredicate translates p into a WHERE expression and its arguments.
// Column names come from fixed tables; values are always bound.
func compilePredicate(p storage.Predicate) (string, []any, error) {
	switch v := p.(type) {
	case nil:
		return "1", nil, nil

	case storage.All:
		return compileGroup(v, "AND", "1")

	case storage.Any:
		return compileGroup(v, "OR", "0")

	case storage.Contains:
		col, ok := textColumns[v.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: text field %q", storage.ErrInvalidQuery, v.Field)
		}
		return "instr(fold(" + col + "), ?) > 0", []any{v.Substring}, nil

	case storage.NonEmpty:
		col, ok := textColumns[v.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: text field %q", storage.ErrInvalidQuery, v.Field)
		}
		return "trim(" + col + ", " + blankChars + ") != ''", nil, nil

	case storage.Empty:
		col, ok := textColumns[v.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: text field %q", storage.ErrInvalidQuery, v.Field)
		}
		return "trim(" + col + ", " + blankChars + ") = ''", nil, nil

	case storage.Compare:
		col, ok := numericColumns[v.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: numeric field %q", storage.ErrInvalidQuery, v.Field)
		}
		switch v.Op {
		case storage.OpGreaterEqual, storage.OpGreater, storage.OpLessEqual:
		default:
			return "", nil, fmt.Errorf("%w: operator %q", storage.ErrInvalidQuery, v.Op)
		}
		return col + " " + string(v.Op) + " ?", []any{v.Value}, nil

	case storage.Verified:
		return "verified = ?", []any{v.Value}, nil
	}
	return "", nil, fmt.Errorf("%w: predicate %T", storage.ErrInvalidQuery, p)
}

func compileGroup(children []storage.Predicate, joiner, empty string) (string, []any, error) {
	if len(children) == 0 {
		return empty, nil, nil
	}
	parts := make([]string, 0, len(children))
	var args []any
	for _, child := range children {
		expr, childArgs, err := compilePredicate(child)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, expr)
		args = append(args, childArgs...)
	}
	return "(" + strings.Join(parts, " "+joiner+" ") + ")", args, nil
}

// compileOrder translates o into an ORDER BY list and its arguments.
// It must sort exactly like storage.Order.Compare.
func compileOrder(o storage.Order) (string, []any) {
	if !o.IsRelevance() {
		return "engagement_rate DESC, total_followers DESC, username_key ASC, id ASC", nil
	}

	var (
		terms []string
		args  []any
	)
	for _, kw := range o.Keywords() {
		terms = append(terms, fmt.Sprintf(
			"(CASE WHEN fold(category) = ? THEN %d WHEN instr(fold(category), ?) > 0 THEN %d ELSE 0 END)",
			storage.CategoryExactWeight, storage.CategorySubstringWeight))
		terms = append(terms, fmt.Sprintf(
			"(CASE WHEN fold(username) = ? THEN %d WHEN instr(fold(username), ?) > 0 THEN %d ELSE 0 END)",
			storage.UsernameExactWeight, storage.UsernameSubstringWeight))
		args = append(args, kw, kw, kw, kw)
	}
	terms = append(terms, fmt.Sprintf(
		"(CASE WHEN engagement_rate >= 8 THEN %d WHEN engagement_rate >= 5 THEN %d WHEN engagement_rate >= 3 THEN %d ELSE 0 END)",
		storage.EngagementHighWeight, storage.EngagementMidWeight, storage.EngagementLowWeight))
	terms = append(terms, fmt.Sprintf("(CASE WHEN verified != 0 THEN %d ELSE 0 END)", storage.VerifiedWeight))

	weight := strings.Join(terms, " + ")
	return "(" + weight + ") DESC, total_followers DESC, engagement_rate DESC, username_key ASC, id ASC", args
}
