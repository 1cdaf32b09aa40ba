package domain

import "fmt"

// OutcomeKind tags a SubmissionOutcome
type OutcomeKind int

const (
	OutcomeAccepted OutcomeKind = iota
	OutcomeHiddenDataDetected
	OutcomeRejected
	OutcomeDuplicateConflict
	OutcomeAuthExpired
	OutcomeUnrecognized
	OutcomeFailed
	OutcomeMalformedResponse
	OutcomeTransportFailure
	OutcomeInvalid
	OutcomeBusy
)

var outcomeNames = map[OutcomeKind]string{
	OutcomeAccepted:           "accepted",
	OutcomeHiddenDataDetected: "hidden-data-detected",
	OutcomeRejected:           "rejected",
	OutcomeDuplicateConflict:  "duplicate-conflict",
	OutcomeAuthExpired:        "auth-expired",
	OutcomeUnrecognized:       "unrecognized",
	OutcomeFailed:             "failed",
	OutcomeMalformedResponse:  "malformed-response",
	OutcomeTransportFailure:   "transport-failure",
	OutcomeInvalid:            "invalid",
	OutcomeBusy:               "busy",
}

func (k OutcomeKind) String() string {
	if name, ok := outcomeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(k))
}

// SimilarMatch is one previously uploaded image reported as similar
type SimilarMatch struct {
	Identity string
	Distance float64
}

// SubmissionOutcome is the terminal result of one upload attempt. Message is
// the single user-visible text; the remaining fields carry the variant data.
type SubmissionOutcome struct {
	Kind       OutcomeKind
	HTTPStatus int
	Message    string

	HiddenMessage  string
	Reason         string
	SimilarMatches []SimilarMatch
	Distance       float64
	HasDistance    bool
	RawText        string
	Preview        string
	Err            error
}

// ResetsForm reports whether the outcome clears the upload form.
// Only Accepted does.
func (o SubmissionOutcome) ResetsForm() bool {
	return o.Kind == OutcomeAccepted
}

// ClosestMatch returns the first reported similar match, if any
func (o SubmissionOutcome) ClosestMatch() (SimilarMatch, bool) {
	if len(o.SimilarMatches) == 0 {
		return SimilarMatch{}, false
	}
	return o.SimilarMatches[0], true
}

// Notice converts the outcome into its user-visible effect
func (o SubmissionOutcome) Notice() Notice {
	n := Notice{Message: o.Message}
	switch o.Kind {
	case OutcomeAccepted:
		n.Level = NoticeSuccess
	case OutcomeHiddenDataDetected, OutcomeRejected, OutcomeDuplicateConflict, OutcomeBusy, OutcomeUnrecognized:
		n.Level = NoticeWarning
	case OutcomeMalformedResponse:
		n.Level = NoticeError
		n.Detail = o.Preview
	default:
		n.Level = NoticeError
	}
	return n
}
