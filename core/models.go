package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Candidate IDs are derived from the lowercased username.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// CandidateID returns the content-derived ID for a username.
func CandidateID(username string) ID {
	return IDFromContent("candidate:" + NormalizeUsername(username))
}

// NormalizeUsername returns the canonical form used for uniqueness checks.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ContentHash returns a 64-bit BLAKE2b digest of text.
// Used to detect when a candidate's embedding input has changed.
func ContentHash(text string) uint64 {
	return uint64(IDFromContent(text))
}

// Candidate is a searchable creator profile.
// The search core only reads candidates; they are written by ingestion.
type Candidate struct {
	Id                 ID        `json:"id"`
	Username           string    `json:"username"`
	FullName           string    `json:"full_name"`
	Email              string    `json:"email,omitempty"`
	Bio                string    `json:"bio"`
	Category           string    `json:"category"`
	InstagramHandle    string    `json:"instagram_handle,omitempty"`
	YouTubeChannel     string    `json:"youtube_channel,omitempty"`
	TikTokHandle       string    `json:"tiktok_handle,omitempty"`
	InstagramFollowers int64     `json:"instagram_followers"`
	YouTubeSubscribers int64     `json:"youtube_subscribers"`
	TikTokFollowers    int64     `json:"tiktok_followers"`
	VideoCount         int64     `json:"video_count"`
	TotalViews         int64     `json:"total_views"`
	YouTubeURL         string    `json:"youtube_url,omitempty"`
	ProfileImageURL    string    `json:"profile_image_url,omitempty"`
	EngagementRate     float64   `json:"engagement_rate"` // percent, 0-100
	Verified           bool      `json:"verified"`
	InsertedAt         time.Time `json:"inserted_at,omitzero"`
	UpdatedAt          time.Time `json:"updated_at,omitzero"`
}

// TotalFollowers is the sum of the three platform audiences.
// It is always derived and never stored independently.
func (c *Candidate) TotalFollowers() int64 {
	return c.InstagramFollowers + c.YouTubeSubscribers + c.TikTokFollowers
}

// Followers returns the audience size on a single platform.
func (c *Candidate) Followers(p Platform) int64 {
	switch p {
	case PlatformInstagram:
		return c.InstagramFollowers
	case PlatformYouTube:
		return c.YouTubeSubscribers
	case PlatformTikTok:
		return c.TikTokFollowers
	}
	return 0
}

// Handle returns the candidate's handle on a single platform.
func (c *Candidate) Handle(p Platform) string {
	switch p {
	case PlatformInstagram:
		return c.InstagramHandle
	case PlatformYouTube:
		return c.YouTubeChannel
	case PlatformTikTok:
		return c.TikTokHandle
	}
	return ""
}

// MarshalJSON adds the derived total_followers field.
func (c Candidate) MarshalJSON() ([]byte, error) {
	type plain Candidate
	return json.Marshal(struct {
		plain
		TotalFollowers int64 `json:"total_followers"`
	}{plain(c), c.TotalFollowers()})
}

// EmbeddingText builds the text that represents a candidate in vector space.
func EmbeddingText(c *Candidate) string {
	parts := make([]string, 0, 3)
	if bio := strings.TrimSpace(c.Bio); bio != "" {
		parts = append(parts, "Bio: "+bio)
	}
	if category := strings.TrimSpace(c.Category); category != "" {
		parts = append(parts, "Category: "+category)
	}
	var platforms []string
	for _, p := range Platforms {
		if c.Handle(p) != "" {
			platforms = append(platforms, string(p))
		}
	}
	if len(platforms) > 0 {
		parts = append(parts, "Platforms: "+strings.Join(platforms, ", "))
	}
	return strings.Join(parts, "\n")
}

// Embedding is a stored vector for a candidate.
type Embedding struct {
	CandidateId ID
	Vector      []float32
	ContentHash uint64 // ContentHash of the EmbeddingText the vector was built from
	UpdatedAt   time.Time
}

// SimilarityMatch represents a candidate match from vector similarity search.
type SimilarityMatch struct {
	CandidateId ID
	Score       float32
}
