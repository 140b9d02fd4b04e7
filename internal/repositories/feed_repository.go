// Package repositories wraps the remote API client in the per-resource
// repositories the session layer consumes. The backend itself is out of
// scope; these are the client halves of its contract.
package repositories

import (
	"context"
	"fmt"

	"github.com/bloomapp/bloom-core/internal/api"
	"github.com/bloomapp/bloom-core/internal/models"
	"github.com/bloomapp/bloom-core/internal/pagination"
)

// FeedRepository defines the remote operations behind the friends feed
type FeedRepository interface {
	GetFeed(ctx context.Context, req pagination.Request) (pagination.Page[models.FeedPost], error)
	CreatePost(ctx context.Context, req models.CreatePostRequest) (models.FeedPost, error)
	ReactToPost(ctx context.Context, postID string, kind models.ReactionKind) error
	RemoveReaction(ctx context.Context, postID string) error
}

// RemoteFeedRepository implements FeedRepository over the REST client
type RemoteFeedRepository struct {
	client *api.Client
}

// NewRemoteFeedRepository creates a new RemoteFeedRepository
func NewRemoteFeedRepository(client *api.Client) *RemoteFeedRepository {
	return &RemoteFeedRepository{client: client}
}

func (r *RemoteFeedRepository) GetFeed(ctx context.Context, req pagination.Request) (pagination.Page[models.FeedPost], error) {
	return api.GetPaginated[models.FeedPost](ctx, r.client, "/posts/feed", req, nil)
}

func (r *RemoteFeedRepository) CreatePost(ctx context.Context, req models.CreatePostRequest) (models.FeedPost, error) {
	return api.Post[models.FeedPost](ctx, r.client, "/posts", req)
}

func (r *RemoteFeedRepository) ReactToPost(ctx context.Context, postID string, kind models.ReactionKind) error {
	body := map[string]string{"type": string(kind)}
	_, err := api.Post[struct{}](ctx, r.client, fmt.Sprintf("/posts/%s/reactions", postID), body)
	return err
}

func (r *RemoteFeedRepository) RemoveReaction(ctx context.Context, postID string) error {
	return api.Delete(ctx, r.client, fmt.Sprintf("/posts/%s/reactions", postID))
}
