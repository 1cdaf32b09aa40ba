package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
)

// flexID accepts a JSON number or string
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// postIDValue sends numeric ids as numbers, the way the server stores them
func postIDValue(id string) interface{} {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

type wireComment struct {
	ID        flexID `json:"id"`
	PostID    flexID `json:"post_id"`
	Username  string `json:"username"`
	User      string `json:"user"`
	Identity  string `json:"identity"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

func (w wireComment) toDomain() domain.Comment {
	return domain.Comment{
		ID:        string(w.ID),
		PostID:    string(w.PostID),
		Identity:  firstNonEmpty(w.Username, w.User, w.Identity),
		Text:      w.Text,
		CreatedAt: parseTimestamp(w.CreatedAt),
	}
}

type wirePost struct {
	ID        flexID `json:"id"`
	Username  string `json:"username"`
	User      string `json:"user"`
	Identity  string `json:"identity"`
	Uploader  string `json:"uploader"`
	FileURL   string `json:"file_url"`
	MediaURL  string `json:"media_url"`
	CreatedAt string `json:"created_at"`
}

func (w wirePost) toDomain() domain.Post {
	return domain.Post{
		ID:        string(w.ID),
		Identity:  firstNonEmpty(w.Username, w.User, w.Identity, w.Uploader),
		MediaURL:  firstNonEmpty(w.FileURL, w.MediaURL),
		CreatedAt: parseTimestamp(w.CreatedAt),
	}
}

func toPosts(in []wirePost) []domain.Post {
	out := make([]domain.Post, 0, len(in))
	for _, w := range in {
		out = append(out, w.toDomain())
	}
	return out
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05",
}

// parseTimestamp accepts RFC 3339 and the naive ISO forms the server emits;
// unknown formats yield the zero time
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
