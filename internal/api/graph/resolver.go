package graph

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/phrazzld/feed-api/internal/domain"
	"github.com/phrazzld/feed-api/internal/service"
)

// TimestampLayout renders times as RFC 3339 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Resolver binds schema fields to the account and feed services.
type Resolver struct {
	accounts service.AccountService
	feed     service.FeedService
}

// NewResolver creates a Resolver.
func NewResolver(accounts service.AccountService, feed service.FeedService) *Resolver {
	return &Resolver{accounts: accounts, feed: feed}
}

func (r *Resolver) login(p graphql.ResolveParams) (any, error) {
	return r.accounts.Login(p.Context, stringArg(p.Args, "email"), stringArg(p.Args, "password"))
}

func (r *Resolver) register(p graphql.ResolveParams) (any, error) {
	in := objectArg(p.Args, "userInput")
	return r.accounts.Register(p.Context, service.RegisterInput{
		Email:    stringArg(in, "email"),
		Password: stringArg(in, "password"),
		Name:     stringArg(in, "name"),
	})
}

func (r *Resolver) fetchStatus(p graphql.ResolveParams) (any, error) {
	return r.accounts.FetchStatus(p.Context)
}

func (r *Resolver) updateStatus(p graphql.ResolveParams) (any, error) {
	if err := r.accounts.UpdateStatus(p.Context, stringArg(p.Args, "newStatus")); err != nil {
		return nil, err
	}
	return true, nil
}

func (r *Resolver) getPosts(p graphql.ResolveParams) (any, error) {
	page := 1
	if v, ok := p.Args["page"].(int); ok {
		page = v
	}
	return r.feed.GetPosts(p.Context, page)
}

func (r *Resolver) viewPost(p graphql.ResolveParams) (any, error) {
	return r.feed.ViewPost(p.Context, stringArg(p.Args, "postId"))
}

func (r *Resolver) createPost(p graphql.ResolveParams) (any, error) {
	return r.feed.CreatePost(p.Context, postInputArg(p.Args))
}

func (r *Resolver) updatePost(p graphql.ResolveParams) (any, error) {
	return r.feed.UpdatePost(p.Context, stringArg(p.Args, "postId"), postInputArg(p.Args))
}

func (r *Resolver) deletePost(p graphql.ResolveParams) (any, error) {
	if err := r.feed.DeletePost(p.Context, stringArg(p.Args, "postId")); err != nil {
		return nil, err
	}
	return true, nil
}

// postCreator returns the populated creator or loads it by id.
func (r *Resolver) postCreator(p graphql.ResolveParams) (any, error) {
	post, ok := p.Source.(*domain.Post)
	if !ok {
		return nil, nil
	}
	if post.Creator != nil {
		return post.Creator, nil
	}
	return r.accounts.GetUser(p.Context, post.CreatorID)
}

// userPosts resolves the user's post references. Users embedded as a post
// creator may arrive without references loaded (nil PostIDs).
func (r *Resolver) userPosts(p graphql.ResolveParams) (any, error) {
	user, ok := p.Source.(*domain.User)
	if !ok {
		return nil, nil
	}

	ids := user.PostIDs
	if ids == nil {
		loaded, err := r.accounts.GetUser(p.Context, user.ID)
		if err != nil {
			return nil, err
		}
		ids = loaded.PostIDs
	}
	return r.feed.PostsByIDs(p.Context, ids)
}

func postInputArg(args map[string]any) service.PostInput {
	in := objectArg(args, "postInput")
	return service.PostInput{
		Title:    stringArg(in, "title"),
		ImageURL: stringArg(in, "imageUrl"),
		Content:  stringArg(in, "content"),
	}
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func objectArg(args map[string]any, name string) map[string]any {
	m, _ := args[name].(map[string]any)
	return m
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
