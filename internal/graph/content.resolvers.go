package graph

import (
	"context"

	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/newsletter"

	"go.uber.org/zap"
)

func (r *queryResolver) Home(ctx context.Context) (*model.Home, error) {
	h, err := r.ContentSvc.Home(ctx)
	if err != nil {
		return nil, err
	}
	return MapHomeToGraphQL(h), nil
}

func (r *queryResolver) Banners(ctx context.Context, page string) ([]model.Banner, error) {
	banners, err := r.ContentSvc.ListBanners(ctx, page, false)
	if err != nil {
		return nil, err
	}
	return mapList(banners, MapBannerToGraphQL), nil
}

func (r *queryResolver) Posts(ctx context.Context, limit *int) ([]model.Post, error) {
	posts, err := r.ContentSvc.ListPosts(ctx, true, value(limit))
	if err != nil {
		return nil, err
	}
	return mapList(posts, MapPostToGraphQL), nil
}

// Post resolves to null for unknown or unpublished slugs.
func (r *queryResolver) Post(ctx context.Context, slug string) (*model.Post, error) {
	p, err := r.ContentSvc.GetPost(ctx, slug, true)
	if err != nil || p == nil {
		return nil, err
	}
	out := MapPostToGraphQL(*p)
	return &out, nil
}

func (r *queryResolver) AdminBanners(ctx context.Context, page string) ([]model.Banner, error) {
	banners, err := r.ContentSvc.ListBanners(ctx, page, true)
	if err != nil {
		return nil, err
	}
	return mapList(banners, MapBannerToGraphQL), nil
}

func (r *queryResolver) AdminSections(ctx context.Context) ([]model.Section, error) {
	sections, err := r.ContentSvc.ListSections(ctx, true)
	if err != nil {
		return nil, err
	}
	return mapList(sections, MapSectionToGraphQL), nil
}

func (r *queryResolver) AdminPosts(ctx context.Context, limit *int) ([]model.Post, error) {
	posts, err := r.ContentSvc.ListPosts(ctx, false, value(limit))
	if err != nil {
		return nil, err
	}
	return mapList(posts, MapPostToGraphQL), nil
}

func (r *queryResolver) Subscribers(ctx context.Context, limit *int, offset *int) ([]model.Subscriber, error) {
	subs, err := r.NewsletterSvc.List(ctx, value(limit), value(offset))
	if err != nil {
		return nil, err
	}
	return mapList(subs, MapSubscriberToGraphQL), nil
}

func (r *mutationResolver) Subscribe(ctx context.Context, email string) (bool, error) {
	if err := r.NewsletterSvc.Subscribe(ctx, newsletter.SubscribeInput{Email: email}); err != nil {
		return false, err
	}
	return true, nil
}

// ---------------- banners ----------------

func (r *mutationResolver) CreateBanner(ctx context.Context, input model.BannerInput) (*model.Banner, error) {
	b, err := r.ContentSvc.CreateBanner(ctx, MapBannerInput(input))
	if err != nil {
		logger.FromCtx(ctx).Warn("create banner failed", zap.Error(err))
		return nil, err
	}
	out := MapBannerToGraphQL(*b)
	return &out, nil
}

func (r *mutationResolver) UpdateBanner(ctx context.Context, id string, input model.BannerInput) (*model.Banner, error) {
	bannerID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	b, err := r.ContentSvc.UpdateBanner(ctx, bannerID, MapBannerInput(input))
	if err != nil {
		return nil, err
	}
	out := MapBannerToGraphQL(*b)
	return &out, nil
}

func (r *mutationResolver) DeleteBanner(ctx context.Context, id string) (bool, error) {
	return r.deleteByID(ctx, id, r.ContentSvc.DeleteBanner)
}

// ---------------- sections ----------------

func (r *mutationResolver) CreateSection(ctx context.Context, input model.SectionInput) (*model.Section, error) {
	s, err := r.ContentSvc.CreateSection(ctx, MapSectionInput(input))
	if err != nil {
		logger.FromCtx(ctx).Warn("create section failed", zap.Error(err))
		return nil, err
	}
	out := MapSectionToGraphQL(*s)
	return &out, nil
}

func (r *mutationResolver) UpdateSection(ctx context.Context, id string, input model.SectionInput) (*model.Section, error) {
	sectionID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	s, err := r.ContentSvc.UpdateSection(ctx, sectionID, MapSectionInput(input))
	if err != nil {
		return nil, err
	}
	out := MapSectionToGraphQL(*s)
	return &out, nil
}

func (r *mutationResolver) DeleteSection(ctx context.Context, id string) (bool, error) {
	return r.deleteByID(ctx, id, r.ContentSvc.DeleteSection)
}

// ---------------- posts ----------------

func (r *mutationResolver) CreatePost(ctx context.Context, input model.PostInput) (*model.Post, error) {
	p, err := r.ContentSvc.CreatePost(ctx, MapPostInput(input))
	if err != nil {
		logger.FromCtx(ctx).Warn("create post failed", zap.String("title", input.Title), zap.Error(err))
		return nil, err
	}
	out := MapPostToGraphQL(*p)
	return &out, nil
}

func (r *mutationResolver) UpdatePost(ctx context.Context, id string, input model.PostInput) (*model.Post, error) {
	postID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := r.ContentSvc.UpdatePost(ctx, postID, MapPostInput(input))
	if err != nil {
		return nil, err
	}
	out := MapPostToGraphQL(*p)
	return &out, nil
}

func (r *mutationResolver) DeletePost(ctx context.Context, id string) (bool, error) {
	return r.deleteByID(ctx, id, r.ContentSvc.DeletePost)
}

func (r *mutationResolver) deleteByID(ctx context.Context, id string, del func(context.Context, int64) error) (bool, error) {
	n, err := parseID(id)
	if err != nil {
		return false, err
	}
	if err := del(ctx, n); err != nil {
		return false, err
	}
	return true, nil
}
