package domain

import (
	"strings"
	"sync"
	"time"
)

// Comment is a remark on a post. The server assigns ID and CreatedAt; a
// comment whose creation response omitted the object is kept as a Pending
// placeholder keyed by LocalID.
type Comment struct {
	ID        string
	LocalID   string
	PostID    string
	Identity  string
	Text      string
	CreatedAt time.Time
	Pending   bool
}

// Key returns a stable identifier for rendering lists
func (c Comment) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.LocalID
}

// DisplayIdentity returns the author or "User" when the server sent none
func (c Comment) DisplayIdentity() string {
	if c.Identity == "" {
		return "User"
	}
	return c.Identity
}

// NormalizeCommentText trims the text a user typed
func NormalizeCommentText(text string) string {
	return strings.TrimSpace(text)
}

// Post is an uploaded image as listed in the feed or on the profile
type Post struct {
	ID        string
	Identity  string
	MediaURL  string
	CreatedAt time.Time
	Comments  []Comment
}

// CommentThread is the locally cached, append-only comment list of one post
type CommentThread struct {
	mu       sync.RWMutex
	postID   string
	comments []Comment
	loaded   bool
}

// NewCommentThread creates an empty thread for a post
func NewCommentThread(postID string) *CommentThread {
	return &CommentThread{postID: postID}
}

// PostID returns the owning post
func (t *CommentThread) PostID() string {
	return t.postID
}

// Append adds a comment at the end of the thread
func (t *CommentThread) Append(c Comment) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.comments = append(t.comments, c)
}

// Replace swaps in the authoritative list fetched from the server
func (t *CommentThread) Replace(comments []Comment) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.comments = append([]Comment(nil), comments...)
	t.loaded = true
}

// Comments returns a snapshot in arrival order
func (t *CommentThread) Comments() []Comment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Comment, len(t.comments))
	copy(out, t.comments)
	return out
}

// Len returns the number of cached comments
func (t *CommentThread) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.comments)
}

// Loaded reports whether the thread was filled from the listing endpoint
func (t *CommentThread) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}
