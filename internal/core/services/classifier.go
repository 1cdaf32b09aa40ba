package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
)

// DefaultPreviewChars bounds the raw-text preview of an unparsable reply
const DefaultPreviewChars = 1200

// uploadReply is a read upload response. result is nil when the body is not
// a JSON object; value holds any other truthy JSON document.
type uploadReply struct {
	status int
	result map[string]interface{}
	value  interface{}
	raw    string
}

func parseUploadReply(status int, body []byte) uploadReply {
	r := uploadReply{status: status, raw: string(body)}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return r
	}
	// trailing data makes the whole body unparsable
	if _, err := dec.Token(); err != io.EOF {
		return r
	}
	if obj, ok := doc.(map[string]interface{}); ok {
		r.result = obj
	} else if truthy(doc) {
		r.value = doc
	}
	return r
}

// truthy reports whether a decoded scalar or array counts as a present result
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

func (r uploadReply) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (r uploadReply) tag() string {
	return stringField(r.result, "status")
}

// classifier maps a reply onto an outcome. It reports false when the reply
// belongs to a later tier and never panics.
type classifier func(r uploadReply) (domain.SubmissionOutcome, bool)

// uploadClassifiers returns the tiers in priority order. The last tier
// always matches.
func uploadClassifiers(previewChars int) []classifier {
	return []classifier{
		classifyDuplicateConflict,
		classifyTaggedSuccess,
		classifyOtherDocument,
		classifyServerMessage,
		classifyRawPreview(previewChars),
		classifyStatusOnly,
	}
}

func classifyReply(chain []classifier, r uploadReply) domain.SubmissionOutcome {
	for _, c := range chain {
		if outcome, ok := c(r); ok {
			return outcome
		}
	}
	o, _ := classifyStatusOnly(r)
	return o
}

// classifyDuplicateConflict takes precedence over every other tier
func classifyDuplicateConflict(r uploadReply) (domain.SubmissionOutcome, bool) {
	if r.status != http.StatusConflict || r.tag() != "duplicate" {
		return domain.SubmissionOutcome{}, false
	}

	o := domain.SubmissionOutcome{
		Kind:       domain.OutcomeDuplicateConflict,
		HTTPStatus: r.status,
		Message:    MsgUploadDuplicate,
		Reason:     stringField(r.result, "message"),
	}

	details, _ := r.result["details"].(map[string]interface{})
	if d, ok := numberField(details, "distance"); ok {
		o.Distance, o.HasDistance = d, true
	} else if d, ok := numberField(r.result, "min_distance"); ok {
		o.Distance, o.HasDistance = d, true
	}
	if o.HasDistance {
		o.Message += "\n\nHamming distance: " + domain.FormatDistance(o.Distance)
	}
	if uploader := stringField(details, "existing_uploader"); uploader != "" {
		o.SimilarMatches = []domain.SimilarMatch{{Identity: uploader, Distance: o.Distance}}
	}
	return o, true
}

func classifyTaggedSuccess(r uploadReply) (domain.SubmissionOutcome, bool) {
	if !r.ok() || r.result == nil {
		return domain.SubmissionOutcome{}, false
	}

	message := stringField(r.result, "message")
	o := domain.SubmissionOutcome{HTTPStatus: r.status}

	switch r.tag() {
	case "ok":
		o.Kind = domain.OutcomeAccepted
		o.Message = message
		if o.Message == "" {
			o.Message = MsgUploadSuccessful
		}
	case "hidden data detected":
		o.Kind = domain.OutcomeHiddenDataDetected
		o.HiddenMessage = stringField(r.result, "hidden_message")
		o.Message = "Hidden message detected: " + o.HiddenMessage
	case "rejected":
		o.Kind = domain.OutcomeRejected
		o.Reason = message
		o.SimilarMatches = similarMatches(r.result["similar_images"])
		o.Message = "Upload rejected: " + message
		if m, ok := o.ClosestMatch(); ok {
			o.Message += fmt.Sprintf("\n\nMatched with image uploaded by: %s\nHamming distance: %s",
				m.Identity, domain.FormatDistance(m.Distance))
		}
	default:
		o.Kind = domain.OutcomeUnrecognized
		o.Message = message
		if o.Message == "" {
			serialized, err := json.Marshal(r.result)
			if err != nil {
				serialized = []byte(r.raw)
			}
			o.Message = string(serialized)
		}
	}
	return o, true
}

// classifyOtherDocument shows a successful reply that is valid JSON but not an
// object in its serialized form
func classifyOtherDocument(r uploadReply) (domain.SubmissionOutcome, bool) {
	if !r.ok() || r.value == nil {
		return domain.SubmissionOutcome{}, false
	}
	serialized, err := json.Marshal(r.value)
	if err != nil {
		serialized = []byte(r.raw)
	}
	return domain.SubmissionOutcome{
		Kind:       domain.OutcomeUnrecognized,
		HTTPStatus: r.status,
		Message:    string(serialized),
	}, true
}

func classifyServerMessage(r uploadReply) (domain.SubmissionOutcome, bool) {
	message := stringField(r.result, "message")
	if message == "" {
		return domain.SubmissionOutcome{}, false
	}
	return domain.SubmissionOutcome{
		Kind:       domain.OutcomeFailed,
		HTTPStatus: r.status,
		Reason:     message,
		Message:    "Upload failed: " + message,
	}, true
}

func classifyRawPreview(limit int) classifier {
	if limit <= 0 {
		limit = DefaultPreviewChars
	}
	return func(r uploadReply) (domain.SubmissionOutcome, bool) {
		if r.raw == "" {
			return domain.SubmissionOutcome{}, false
		}
		return domain.SubmissionOutcome{
			Kind:       domain.OutcomeMalformedResponse,
			HTTPStatus: r.status,
			Message:    MsgUploadPreview,
			RawText:    r.raw,
			Preview:    truncateRunes(r.raw, limit),
		}, true
	}
}

func classifyStatusOnly(r uploadReply) (domain.SubmissionOutcome, bool) {
	return domain.SubmissionOutcome{
		Kind:       domain.OutcomeFailed,
		HTTPStatus: r.status,
		Message:    fmt.Sprintf("Upload failed (HTTP %d).", r.status),
	}, true
}

func similarMatches(v interface{}) []domain.SimilarMatch {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var matches []domain.SimilarMatch
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		d, _ := numberField(m, "distance")
		matches = append(matches, domain.SimilarMatch{
			Identity: stringField(m, "username", "identity", "uploader", "user"),
			Distance: d,
		})
	}
	return matches
}

// stringField returns the first non-empty string value among keys
func stringField(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// numberField reads a numeric value that may arrive as a number or a string
func numberField(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
