package mockserver

import (
	"strings"
	"unicode"
)

var (
	positiveWords = map[string]bool{
		"love": true, "great": true, "nice": true, "beautiful": true, "awesome": true,
		"good": true, "amazing": true, "wonderful": true, "cute": true, "cool": true,
	}
	negativeWords = map[string]bool{
		"hate": true, "awful": true, "terrible": true, "stupid": true, "ugly": true,
		"worst": true, "horrible": true, "disgusting": true, "bad": true, "idiot": true,
	}
)

// analyze scores text with a small word list. The label is "negative" for a
// score below zero, "positive" above it and "neutral" otherwise.
func analyze(text string) (string, float64) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	if len(words) == 0 {
		return "neutral", 0
	}

	score := 0
	for _, w := range words {
		switch {
		case positiveWords[w]:
			score++
		case negativeWords[w]:
			score--
		}
	}

	normalized := float64(score) / float64(len(words))
	switch {
	case score < 0:
		return "negative", normalized
	case score > 0:
		return "positive", normalized
	default:
		return "neutral", 0
	}
}
