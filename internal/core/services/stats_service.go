package services

import (
	"context"
	"fmt"
	"sort"
)

// StatsService summarises the feed and its comment activity
type StatsService struct {
	feed     *FeedService
	comments *CommentService
}

// NewStatsService creates a new stats service
func NewStatsService(feed *FeedService, comments *CommentService) *StatsService {
	return &StatsService{
		feed:     feed,
		comments: comments,
	}
}

// StatsRequest configures the summary
type StatsRequest struct {
	WithComments bool // fetch comment counts (one request per post)
	TopPosts     int
}

// PostActivity is the comment count of one post
type PostActivity struct {
	PostID   string
	Identity string
	Comments int
}

// StatsResponse is the feed summary
type StatsResponse struct {
	TotalPosts    int
	TotalComments int
	Uploaders     []UploaderCount
	Activity      []PostActivity
	FailedPosts   int
}

// Execute builds the summary
func (s *StatsService) Execute(ctx context.Context, req StatsRequest) (*StatsResponse, error) {
	feed, err := s.feed.Execute(ctx, FeedRequest{})
	if err != nil {
		return nil, err
	}

	resp := &StatsResponse{
		TotalPosts: feed.Total,
		Uploaders:  CountByUploader(feed.Posts),
	}

	if !req.WithComments {
		return resp, nil
	}

	for _, p := range feed.Posts {
		list, err := s.comments.Load(ctx, p.ID)
		if err != nil {
			resp.FailedPosts++
			continue
		}
		resp.TotalComments += len(list)
		resp.Activity = append(resp.Activity, PostActivity{PostID: p.ID, Identity: p.Identity, Comments: len(list)})
	}

	sort.SliceStable(resp.Activity, func(i, j int) bool {
		return resp.Activity[i].Comments > resp.Activity[j].Comments
	})
	if req.TopPosts > 0 && len(resp.Activity) > req.TopPosts {
		resp.Activity = resp.Activity[:req.TopPosts]
	}

	if resp.FailedPosts == len(feed.Posts) && len(feed.Posts) > 0 {
		return resp, fmt.Errorf("failed to load comments for all %d posts", resp.FailedPosts)
	}
	return resp, nil
}
