package domain

import (
	"strconv"
	"strings"
)

// DuplicateVerdict is the advisory result of a similarity pre-check.
// Lower distance means more similar.
type DuplicateVerdict struct {
	Matched     bool
	Distance    float64
	HasDistance bool
}

// DistanceString renders the distance the way the server reported it
func (v DuplicateVerdict) DistanceString() string {
	if !v.HasDistance {
		return "unknown"
	}
	return FormatDistance(v.Distance)
}

// FormatDistance renders a distance without trailing zeros ("4", "3.5")
func FormatDistance(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// SentimentVerdict is the moderation label assigned to comment text
type SentimentVerdict string

const (
	SentimentPositive SentimentVerdict = "positive"
	SentimentNeutral  SentimentVerdict = "neutral"
	SentimentNegative SentimentVerdict = "negative"
	SentimentUnknown  SentimentVerdict = "unknown"
)

// ParseSentiment maps a server label onto a verdict; unrecognised labels are unknown
func ParseSentiment(label string) SentimentVerdict {
	switch SentimentVerdict(strings.ToLower(strings.TrimSpace(label))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNeutral:
		return SentimentNeutral
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentUnknown
	}
}

// Blocks reports whether the verdict prevents comment creation.
// Only negative blocks.
func (s SentimentVerdict) Blocks() bool {
	return s == SentimentNegative
}
