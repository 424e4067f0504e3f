package content

import (
	"context"
	"time"

	"paulapastas-be/internal/cache"
	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/utils"

	"go.uber.org/zap"
)

const homeCacheKey = "home"

// FeaturedSource supplies the featured products shown on the home page.
type FeaturedSource interface {
	ListFeatured(ctx context.Context, limit int) ([]catalog.Product, error)
}

type Service interface {
	Home(ctx context.Context) (Home, error)

	ListBanners(ctx context.Context, page string, includeInactive bool) ([]Banner, error)
	CreateBanner(ctx context.Context, input BannerInput) (*Banner, error)
	UpdateBanner(ctx context.Context, id int64, input BannerInput) (*Banner, error)
	DeleteBanner(ctx context.Context, id int64) error

	ListSections(ctx context.Context, includeInactive bool) ([]Section, error)
	CreateSection(ctx context.Context, input SectionInput) (*Section, error)
	UpdateSection(ctx context.Context, id int64, input SectionInput) (*Section, error)
	DeleteSection(ctx context.Context, id int64) error

	ListPosts(ctx context.Context, publishedOnly bool, limit int) ([]Post, error)
	GetPost(ctx context.Context, slug string, publishedOnly bool) (*Post, error)
	CreatePost(ctx context.Context, input PostInput) (*Post, error)
	UpdatePost(ctx context.Context, id int64, input PostInput) (*Post, error)
	DeletePost(ctx context.Context, id int64) error
}

type service struct {
	repo     Repository
	featured FeaturedSource
	home     *cache.TTL[Home]
	now      func() time.Time
}

// NewService builds the content service. home may be nil to disable caching.
func NewService(repo Repository, featured FeaturedSource, home *cache.TTL[Home]) Service {
	return &service{repo: repo, featured: featured, home: home, now: time.Now}
}

func (s *service) Home(ctx context.Context) (Home, error) {
	if s.home == nil {
		return s.loadHome(ctx)
	}
	return s.home.GetOrLoad(ctx, homeCacheKey, s.loadHome)
}

func (s *service) loadHome(ctx context.Context) (Home, error) {
	featured, err := s.featured.ListFeatured(ctx, 0)
	if err != nil {
		return Home{}, err
	}
	sections, err := s.repo.ListSections(ctx, false)
	if err != nil {
		return Home{}, err
	}
	banners, err := s.repo.ListBanners(ctx, PageHome, false)
	if err != nil {
		return Home{}, err
	}
	if featured == nil {
		featured = []catalog.Product{}
	}
	return Home{Featured: featured, Sections: sections, Banners: banners}, nil
}

func (s *service) invalidate() {
	if s.home != nil {
		s.home.Invalidate()
	}
}

// ----------------- Banners -----------------

func (s *service) ListBanners(ctx context.Context, page string, includeInactive bool) ([]Banner, error) {
	return s.repo.ListBanners(ctx, page, includeInactive)
}

func bannerFrom(input BannerInput) *Banner {
	return &Banner{
		Title:        input.Title,
		Subtitle:     input.Subtitle,
		ImageURL:     input.ImageURL,
		Link:         input.Link,
		Page:         input.Page,
		DisplayOrder: input.DisplayOrder,
		Active:       activeOrDefault(input.Active),
	}
}

func (s *service) CreateBanner(ctx context.Context, input BannerInput) (*Banner, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	b := bannerFrom(input)
	if err := s.repo.CreateBanner(ctx, b); err != nil {
		logger.FromCtx(ctx).Error("create banner failed", zap.Error(err))
		return nil, err
	}
	s.invalidate()
	return b, nil
}

func (s *service) UpdateBanner(ctx context.Context, id int64, input BannerInput) (*Banner, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	b := bannerFrom(input)
	b.ID = id
	if err := s.repo.UpdateBanner(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate()
	return b, nil
}

func (s *service) DeleteBanner(ctx context.Context, id int64) error {
	if err := s.repo.DeleteBanner(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// ----------------- Home sections -----------------

func (s *service) ListSections(ctx context.Context, includeInactive bool) ([]Section, error) {
	return s.repo.ListSections(ctx, includeInactive)
}

func sectionFrom(input SectionInput) *Section {
	return &Section{
		Title:        input.Title,
		Subtitle:     input.Subtitle,
		ImageURL:     input.ImageURL,
		Link:         input.Link,
		DisplayOrder: input.DisplayOrder,
		Active:       activeOrDefault(input.Active),
	}
}

func (s *service) CreateSection(ctx context.Context, input SectionInput) (*Section, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	sec := sectionFrom(input)
	if err := s.repo.CreateSection(ctx, sec); err != nil {
		logger.FromCtx(ctx).Error("create section failed", zap.Error(err))
		return nil, err
	}
	s.invalidate()
	return sec, nil
}

func (s *service) UpdateSection(ctx context.Context, id int64, input SectionInput) (*Section, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	sec := sectionFrom(input)
	sec.ID = id
	if err := s.repo.UpdateSection(ctx, sec); err != nil {
		return nil, err
	}
	s.invalidate()
	return sec, nil
}

func (s *service) DeleteSection(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSection(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// ----------------- Blog posts -----------------

func (s *service) ListPosts(ctx context.Context, publishedOnly bool, limit int) ([]Post, error) {
	return s.repo.ListPosts(ctx, publishedOnly, limit)
}

// GetPost returns nil, nil when no post matches.
func (s *service) GetPost(ctx context.Context, slug string, publishedOnly bool) (*Post, error) {
	return s.repo.GetPostBySlug(ctx, slug, publishedOnly)
}

func (s *service) postFrom(input PostInput) *Post {
	p := &Post{
		Slug:       input.Slug,
		Title:      input.Title,
		Excerpt:    input.Excerpt,
		Body:       input.Body,
		CoverImage: input.CoverImage,
		Published:  input.Published,
	}
	if p.Slug == "" {
		p.Slug = utils.Slugify(input.Title)
	}
	if p.Published {
		t := s.now().UTC()
		p.PublishedAt = &t
	}
	return p
}

func (s *service) CreatePost(ctx context.Context, input PostInput) (*Post, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreatePost"),
	)

	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	p := s.postFrom(input)
	if p.Slug == "" {
		return nil, utils.NewValidationError("slug is required")
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		log.Warn("create post failed", zap.String("slug", p.Slug), zap.Error(err))
		return nil, err
	}
	log.Info("post created", zap.Int64("post_id", p.ID), zap.Bool("published", p.Published))
	return p, nil
}

func (s *service) UpdatePost(ctx context.Context, id int64, input PostInput) (*Post, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	p := s.postFrom(input)
	if p.Slug == "" {
		return nil, utils.NewValidationError("slug is required")
	}
	p.ID = id
	if err := s.repo.UpdatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeletePost(ctx context.Context, id int64) error {
	return s.repo.DeletePost(ctx, id)
}
