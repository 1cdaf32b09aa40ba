package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
)

// FeedService lists posts for the feed and profile views
type FeedService struct {
	gateway ports.FeedGateway
	session *SessionContext
}

// NewFeedService creates a new feed service
func NewFeedService(gateway ports.FeedGateway, session *SessionContext) *FeedService {
	return &FeedService{
		gateway: gateway,
		session: session,
	}
}

// FeedRequest selects which listing to fetch
type FeedRequest struct {
	Mine     bool   // own posts only (profile)
	Identity string // filter by uploader (optional)
	Limit    int
}

// FeedResponse represents the listed posts
type FeedResponse struct {
	Posts []domain.Post
	Total int
}

// Execute fetches the requested listing
func (s *FeedService) Execute(ctx context.Context, req FeedRequest) (*FeedResponse, error) {
	credential, ok := s.session.Credential()
	if req.Mine && !ok {
		return nil, domain.ErrNotSignedIn
	}

	var (
		posts []domain.Post
		err   error
	)
	if req.Mine {
		posts, err = s.gateway.ListMyPosts(ctx, credential)
	} else {
		posts, err = s.gateway.ListFeed(ctx, credential)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.session.Expire(ctx)
		}
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	if req.Identity != "" {
		posts = filterByIdentity(posts, req.Identity)
	}
	total := len(posts)
	if req.Limit > 0 && len(posts) > req.Limit {
		posts = posts[:req.Limit]
	}

	return &FeedResponse{Posts: posts, Total: total}, nil
}

// Find returns a single post from the feed
func (s *FeedService) Find(ctx context.Context, postID string) (*domain.Post, error) {
	resp, err := s.Execute(ctx, FeedRequest{})
	if err != nil {
		return nil, err
	}
	for i := range resp.Posts {
		if resp.Posts[i].ID == postID {
			return &resp.Posts[i], nil
		}
	}
	return nil, fmt.Errorf("post '%s' not found", postID)
}

func filterByIdentity(posts []domain.Post, identity string) []domain.Post {
	var out []domain.Post
	for _, p := range posts {
		if p.Identity == identity {
			out = append(out, p)
		}
	}
	return out
}

// UploaderCount is the number of posts of one identity
type UploaderCount struct {
	Identity string
	Posts    int
}

// CountByUploader aggregates posts per identity, most active first
func CountByUploader(posts []domain.Post) []UploaderCount {
	counts := make(map[string]int)
	for _, p := range posts {
		id := p.Identity
		if id == "" {
			id = "unknown"
		}
		counts[id]++
	}

	out := make([]UploaderCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, UploaderCount{Identity: id, Posts: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Posts != out[j].Posts {
			return out[i].Posts > out[j].Posts
		}
		return out[i].Identity < out[j].Identity
	})
	return out
}
