package graph

import (
	"github.com/graphql-go/graphql"
	"github.com/phrazzld/feed-api/internal/domain"
	"github.com/phrazzld/feed-api/internal/service"
)

// NewSchema builds the executable schema with fields resolved by r.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	var postType, userType *graphql.Object

	postType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"_id": postField(graphql.NewNonNull(graphql.ID), func(p *domain.Post) any {
					return p.ID.String()
				}),
				"title": postField(graphql.NewNonNull(graphql.String), func(p *domain.Post) any {
					return p.Title
				}),
				"imageUrl": postField(graphql.NewNonNull(graphql.String), func(p *domain.Post) any {
					return p.ImageURL
				}),
				"content": postField(graphql.NewNonNull(graphql.String), func(p *domain.Post) any {
					return p.Content
				}),
				"creator": &graphql.Field{
					Type:    graphql.NewNonNull(userType),
					Resolve: r.postCreator,
				},
				"createdAt": postField(graphql.NewNonNull(graphql.String), func(p *domain.Post) any {
					return formatTime(p.CreatedAt)
				}),
				"updatedAt": postField(graphql.NewNonNull(graphql.String), func(p *domain.Post) any {
					return formatTime(p.UpdatedAt)
				}),
			}
		}),
	})

	userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"_id": userField(graphql.NewNonNull(graphql.ID), func(u *domain.User) any {
					return u.ID.String()
				}),
				"email": userField(graphql.NewNonNull(graphql.String), func(u *domain.User) any {
					return u.Email
				}),
				// Password hashes never leave the server.
				"password": userField(graphql.String, func(*domain.User) any {
					return nil
				}),
				"name": userField(graphql.NewNonNull(graphql.String), func(u *domain.User) any {
					return u.Name
				}),
				"status": userField(graphql.NewNonNull(graphql.String), func(u *domain.User) any {
					return u.Status
				}),
				"posts": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType))),
					Resolve: r.userPosts,
				},
			}
		}),
	})

	authDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthData",
		Fields: graphql.Fields{
			"token": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if res, ok := p.Source.(*service.AuthResult); ok {
						return res.Token, nil
					}
					return nil, nil
				},
			},
			"userId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if res, ok := p.Source.(*service.AuthResult); ok {
						return res.UserID.String(), nil
					}
					return nil, nil
				},
			},
		},
	})

	postsDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PostsData",
		Fields: graphql.Fields{
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if page, ok := p.Source.(*service.PostsPage); ok {
						return page.Posts, nil
					}
					return nil, nil
				},
			},
			"totalPosts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if page, ok := p.Source.(*service.PostsPage); ok {
						return page.TotalPosts, nil
					}
					return nil, nil
				},
			},
		},
	})

	userInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PostInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"imageUrl": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"content":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	loginField := &graphql.Field{
		Type: graphql.NewNonNull(authDataType),
		Args: graphql.FieldConfigArgument{
			"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		},
		Resolve: r.login,
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"login": loginField,
			"getPosts": &graphql.Field{
				Type: graphql.NewNonNull(postsDataType),
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.getPosts,
			},
			"viewPost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.viewPost,
			},
			"fetchStatus": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: r.fetchStatus,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootMutation",
		Fields: graphql.Fields{
			"login": loginField,
			"register": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"userInput": &graphql.ArgumentConfig{Type: userInputType},
				},
				Resolve: r.register,
			},
			"createPost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"postInput": &graphql.ArgumentConfig{Type: postInputType},
				},
				Resolve: r.createPost,
			},
			"updatePost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"postId":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"postInput": &graphql.ArgumentConfig{Type: postInputType},
				},
				Resolve: r.updatePost,
			},
			"deletePost": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.deletePost,
			},
			"updateStatus": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"newStatus": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.updateStatus,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func postField(t graphql.Output, get func(*domain.Post) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			post, ok := p.Source.(*domain.Post)
			if !ok {
				return nil, nil
			}
			return get(post), nil
		},
	}
}

func userField(t graphql.Output, get func(*domain.User) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			user, ok := p.Source.(*domain.User)
			if !ok {
				return nil, nil
			}
			return get(user), nil
		},
	}
}
