package repositories

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bloomapp/bloom-core/internal/api"
	"github.com/bloomapp/bloom-core/internal/models"
	"github.com/bloomapp/bloom-core/internal/pagination"
)

// UserRepository defines the remote operations for finding and following
// other gardeners
type UserRepository interface {
	SearchUsers(ctx context.Context, query string, req pagination.Request) (pagination.Page[models.UserSummary], error)
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
}

// RemoteUserRepository implements UserRepository over the REST client
type RemoteUserRepository struct {
	client *api.Client
}

// NewRemoteUserRepository creates a new RemoteUserRepository
func NewRemoteUserRepository(client *api.Client) *RemoteUserRepository {
	return &RemoteUserRepository{client: client}
}

func (r *RemoteUserRepository) SearchUsers(ctx context.Context, query string, req pagination.Request) (pagination.Page[models.UserSummary], error) {
	extra := url.Values{}
	extra.Set("q", query)
	return api.GetPaginated[models.UserSummary](ctx, r.client, "/users/search", req, extra)
}

func (r *RemoteUserRepository) Follow(ctx context.Context, userID string) error {
	_, err := api.Post[struct{}](ctx, r.client, fmt.Sprintf("/users/%s/follow", userID), nil)
	return err
}

func (r *RemoteUserRepository) Unfollow(ctx context.Context, userID string) error {
	return api.Delete(ctx, r.client, fmt.Sprintf("/users/%s/follow", userID))
}
