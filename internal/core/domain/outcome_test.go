package domain

import (
	"testing"
)

func TestOutcomeResetsForm(t *testing.T) {
	for kind := range outcomeNames {
		o := SubmissionOutcome{Kind: kind}
		want := kind == OutcomeAccepted
		if got := o.ResetsForm(); got != want {
			t.Errorf("%s.ResetsForm() = %v, want %v", kind, got, want)
		}
	}
}

func TestOutcomeNoticeLevels(t *testing.T) {
	tests := []struct {
		kind  OutcomeKind
		level NoticeLevel
	}{
		{OutcomeAccepted, NoticeSuccess},
		{OutcomeHiddenDataDetected, NoticeWarning},
		{OutcomeRejected, NoticeWarning},
		{OutcomeDuplicateConflict, NoticeWarning},
		{OutcomeAuthExpired, NoticeError},
		{OutcomeFailed, NoticeError},
		{OutcomeMalformedResponse, NoticeError},
		{OutcomeTransportFailure, NoticeError},
	}

	for _, tt := range tests {
		n := SubmissionOutcome{Kind: tt.kind, Message: "m"}.Notice()
		if n.Level != tt.level {
			t.Errorf("%s notice level = %s, want %s", tt.kind, n.Level, tt.level)
		}
		if n.Message != "m" {
			t.Errorf("%s notice message = %q", tt.kind, n.Message)
		}
	}
}

func TestMalformedOutcomeCarriesPreview(t *testing.T) {
	o := SubmissionOutcome{Kind: OutcomeMalformedResponse, Message: "Upload failed", Preview: "<html>"}
	if got := o.Notice().Detail; got != "<html>" {
		t.Errorf("Detail = %q, want preview", got)
	}
}

func TestClosestMatch(t *testing.T) {
	o := SubmissionOutcome{}
	if _, ok := o.ClosestMatch(); ok {
		t.Error("expected no match")
	}

	o.SimilarMatches = []SimilarMatch{{Identity: "alice", Distance: 4}, {Identity: "bob", Distance: 9}}
	m, ok := o.ClosestMatch()
	if !ok || m.Identity != "alice" {
		t.Errorf("ClosestMatch() = %+v, %v", m, ok)
	}
}

func TestOutcomeKindString(t *testing.T) {
	if OutcomeDuplicateConflict.String() != "duplicate-conflict" {
		t.Errorf("unexpected name %q", OutcomeDuplicateConflict.String())
	}
	if OutcomeKind(99).String() != "outcome(99)" {
		t.Errorf("unexpected name %q", OutcomeKind(99).String())
	}
}

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		label  string
		want   SentimentVerdict
		blocks bool
	}{
		{"positive", SentimentPositive, false},
		{"Neutral", SentimentNeutral, false},
		{" negative ", SentimentNegative, true},
		{"furious", SentimentUnknown, false},
		{"", SentimentUnknown, false},
	}
	for _, tt := range tests {
		got := ParseSentiment(tt.label)
		if got != tt.want {
			t.Errorf("ParseSentiment(%q) = %q, want %q", tt.label, got, tt.want)
		}
		if got.Blocks() != tt.blocks {
			t.Errorf("ParseSentiment(%q).Blocks() = %v, want %v", tt.label, got.Blocks(), tt.blocks)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	if FormatDistance(4) != "4" {
		t.Errorf("FormatDistance(4) = %q", FormatDistance(4))
	}
	if FormatDistance(3.5) != "3.5" {
		t.Errorf("FormatDistance(3.5) = %q", FormatDistance(3.5))
	}
	if (DuplicateVerdict{}).DistanceString() != "unknown" {
		t.Error("missing distance should render as unknown")
	}
}
