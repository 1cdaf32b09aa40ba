package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
)

var (
	_ ports.AuthGateway       = (*Client)(nil)
	_ ports.DuplicateGateway  = (*Client)(nil)
	_ ports.UploadGateway     = (*Client)(nil)
	_ ports.ModerationGateway = (*Client)(nil)
	_ ports.CommentGateway    = (*Client)(nil)
	_ ports.FeedGateway       = (*Client)(nil)
	_ ports.HealthChecker     = (*Client)(nil)
)

type loginReply struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

// Login posts the credentials. A 401 here means bad credentials, not an
// expired session, so it is returned as a status error.
func (c *Client) Login(ctx context.Context, in domain.LoginRequest) (*domain.Session, error) {
	var out loginReply
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", in, &out)
	if err == domain.ErrUnauthorized {
		return nil, &domain.StatusError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	if err != nil {
		return nil, err
	}
	return &domain.Session{Credential: out.AccessToken, Identity: out.Username}, nil
}

// Register creates an account
func (c *Client) Register(ctx context.Context, in domain.RegisterRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/register", "", in, nil)
}

type duplicateReply struct {
	Status      string      `json:"status"`
	IsDuplicate bool        `json:"is_duplicate"`
	MinDistance interface{} `json:"min_distance"`
}

// CheckDuplicate posts the image to the advisory pre-check
func (c *Client) CheckDuplicate(ctx context.Context, credential, filename string, image []byte) (domain.DuplicateVerdict, error) {
	body, contentType, err := multipartBody(filename, image, nil)
	if err != nil {
		return domain.DuplicateVerdict{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/check-duplicate", credential, body, contentType)
	if err != nil {
		return domain.DuplicateVerdict{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return domain.DuplicateVerdict{}, err
	}
	defer resp.Body.Close()

	var out duplicateReply
	if err := decodeReply(resp, &out); err != nil {
		return domain.DuplicateVerdict{}, err
	}

	v := domain.DuplicateVerdict{Matched: out.Status == "duplicate" || out.IsDuplicate}
	v.Distance, v.HasDistance = toFloat(out.MinDistance)
	return v, nil
}

// Upload posts image and caption. The reply is returned unread.
func (c *Client) Upload(ctx context.Context, credential string, candidate *domain.UploadCandidate) (*ports.RawResponse, error) {
	body, contentType, err := multipartBody(candidate.Filename, candidate.Image, map[string]string{
		"message": candidate.Caption,
	})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", credential, body, contentType)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return &ports.RawResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

type analyzeReply struct {
	Sentiment string `json:"sentiment"`
}

// Analyze screens comment text
func (c *Client) Analyze(ctx context.Context, credential, text string) (domain.SentimentVerdict, error) {
	var out analyzeReply
	in := map[string]string{"comment": text}
	if err := c.doJSON(ctx, http.MethodPost, "/analyze", credential, in, &out); err != nil {
		return "", err
	}
	return domain.ParseSentiment(out.Sentiment), nil
}

type createCommentReply struct {
	Status  string       `json:"status"`
	Comment *wireComment `json:"comment"`
}

// Create posts a comment. A reply without the created object yields nil.
func (c *Client) Create(ctx context.Context, credential, postID, text string) (*domain.Comment, error) {
	in := map[string]interface{}{
		"post_id": postIDValue(postID),
		"text":    text,
	}
	var out createCommentReply
	if err := c.doJSON(ctx, http.MethodPost, "/comments", credential, in, &out); err != nil {
		// an accepted comment without a readable body still counts as created
		if errors.Is(err, domain.ErrMalformedResponse) {
			return nil, nil
		}
		return nil, err
	}
	if out.Comment == nil {
		return nil, nil
	}
	created := out.Comment.toDomain()
	return &created, nil
}

type listCommentsReply struct {
	Comments []wireComment `json:"comments"`
}

// List fetches the comments of a post
func (c *Client) List(ctx context.Context, credential, postID string) ([]domain.Comment, error) {
	var out listCommentsReply
	path := "/comments?post_id=" + url.QueryEscape(postID)
	if err := c.doJSON(ctx, http.MethodGet, path, credential, nil, &out); err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(out.Comments))
	for _, w := range out.Comments {
		cm := w.toDomain()
		if cm.PostID == "" {
			cm.PostID = postID
		}
		comments = append(comments, cm)
	}
	return comments, nil
}

type feedReply struct {
	Uploads []wirePost `json:"uploads"`
}

// ListFeed fetches all uploads
func (c *Client) ListFeed(ctx context.Context, credential string) ([]domain.Post, error) {
	var out feedReply
	if err := c.doJSON(ctx, http.MethodGet, "/upload", credential, nil, &out); err != nil {
		return nil, err
	}
	return toPosts(out.Uploads), nil
}

type myPostsReply struct {
	Posts []wirePost `json:"posts"`
}

// ListMyPosts fetches the uploads of the signed-in user
func (c *Client) ListMyPosts(ctx context.Context, credential string) ([]domain.Post, error) {
	var out myPostsReply
	if err := c.doJSON(ctx, http.MethodGet, "/my-posts", credential, nil, &out); err != nil {
		return nil, err
	}
	return toPosts(out.Posts), nil
}

// multipartBody builds a form with an "image" file part and extra fields
func multipartBody(filename string, image []byte, fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	h.Set("Content-Type", http.DetectContentType(image))
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("write image part: %w", err)
	}

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
