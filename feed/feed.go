// Package feed assembles the ordered, paginated post listings: global,
// per-group, per-author profile and the personalized "following" feed.
// It also mediates follow/unfollow so the self-follow and duplicate-follow
// rules live in one place.
package feed

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"server/cache"
	"server/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("authentication required")
)

type PostView struct {
	ID          uint64 `json:"id"`
	Text        string `json:"text"`
	PublishedAt int64  `json:"published_at"`
	Author      string `json:"author"`
	AuthorName  string `json:"author_name"`
	Group       string `json:"group,omitempty"`
	HasImage    bool   `json:"has_image"`
}

type Page struct {
	Posts    []PostView `json:"posts"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Total    int64      `json:"total"`
	HasNext  bool       `json:"has_next"`
}

// Profile is a profile feed page plus the follow state computed in the same call.
type Profile struct {
	Page
	Author        string `json:"author"`
	AuthorName    string `json:"author_name"`
	Followers     int64  `json:"followers"`
	Following     int64  `json:"following"`
	ViewerFollows bool   `json:"viewer_follows"`
	// CanFollow is false for anonymous viewers and for the author's own profile
	CanFollow bool `json:"can_follow"`
}

type Service struct {
	db       *gorm.DB
	cache    cache.FeedCache
	pageSize int
}

func NewService(db *gorm.DB, feedCache cache.FeedCache, pageSize int) *Service {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Service{db: db, cache: feedCache, pageSize: pageSize}
}

// Global returns one page of all posts, newest first. Pages are memoized for
// the cache TTL, so a freshly published post may be missing until the window
// expires or the cache is cleared.
func (s *Service) Global(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	key := cache.GlobalFeedKey(page)
	if data, ok := s.cache.Get(ctx, key); ok {
		var cached Page
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}
	result, err := s.queryPosts(ctx, allPosts, page)
	if err != nil {
		return Page{}, err
	}
	if data, err := json.Marshal(result); err == nil {
		s.cache.Set(ctx, key, data)
	}
	return result, nil
}

// Group returns one page of posts published into the group with the given slug.
func (s *Service) Group(ctx context.Context, slug string, page int) (Page, error) {
	group, err := models.GroupBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Page{}, ErrNotFound
	} else if err != nil {
		return Page{}, err
	}
	return s.queryPosts(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("group_id = ?", group.ID)
	}, page)
}

// Profile returns one page of the author's posts plus follower/following
// counts and, for an authenticated viewer, the current follow state.
func (s *Service) Profile(ctx context.Context, handle string, viewerID uint64, page int) (Profile, error) {
	author, err := models.UserByHandle(handle)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, ErrNotFound
	} else if err != nil {
		return Profile{}, err
	}
	posts, err := s.queryPosts(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", author.ID)
	}, page)
	if err != nil {
		return Profile{}, err
	}
	result := Profile{
		Page:       posts,
		Author:     author.Handle,
		AuthorName: author.Name,
		Followers:  models.FollowerCount(author.ID),
		Following:  models.FollowingCount(author.ID),
	}
	if viewerID != 0 {
		result.ViewerFollows = models.IsFollowing(viewerID, author.ID)
		result.CanFollow = viewerID != author.ID
	}
	return result, nil
}

// Following returns one page of posts authored by anybody the viewer follows.
// A viewer that follows nobody gets an empty page, not an error.
func (s *Service) Following(ctx context.Context, viewerID uint64, page int) (Page, error) {
	if viewerID == 0 {
		return Page{}, ErrUnauthorized
	}
	if page < 1 {
		page = 1
	}
	followees, err := models.FolloweeIDs(viewerID)
	if err != nil {
		return Page{}, err
	}
	if len(followees) == 0 {
		return Page{Posts: []PostView{}, Page: page, PageSize: s.pageSize}, nil
	}
	return s.queryPosts(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id IN ?", followees)
	}, page)
}

// Follow subscribes the viewer to the author's posts. Following yourself and
// following somebody twice are both silent no-ops rather than errors.
func (s *Service) Follow(ctx context.Context, viewerID uint64, handle string) error {
	if viewerID == 0 {
		return ErrUnauthorized
	}
	author, err := models.UserByHandle(handle)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if author.ID == viewerID {
		return nil
	}
	return models.FollowCreate(viewerID, author.ID)
}

// Unfollow drops the follow if present; absent is a no-op.
func (s *Service) Unfollow(ctx context.Context, viewerID uint64, handle string) error {
	if viewerID == 0 {
		return ErrUnauthorized
	}
	author, err := models.UserByHandle(handle)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return models.FollowDelete(viewerID, author.ID)
}

// ClearCache purges all memoized feed pages immediately.
func (s *Service) ClearCache(ctx context.Context) {
	s.cache.Clear(ctx)
}

func allPosts(q *gorm.DB) *gorm.DB { return q }

// queryPosts applies the total order (published_at, id) descending and the
// OFFSET/LIMIT window. The tie-break on id keeps pagination deterministic
// when several posts share a timestamp. The filter is a scope function so
// Count and Find each run on a fresh query chain.
func (s *Service) queryPosts(ctx context.Context, filter func(*gorm.DB) *gorm.DB, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	var total int64
	if err := filter(s.db.WithContext(ctx).Model(&models.Post{})).Count(&total).Error; err != nil {
		return Page{}, err
	}
	var posts []models.Post
	err := filter(s.db.WithContext(ctx).Preload("User").Preload("Group")).
		Order("published_at DESC, id DESC").
		Offset((page - 1) * s.pageSize).
		Limit(s.pageSize).
		Find(&posts).Error
	if err != nil {
		return Page{}, err
	}
	result := Page{
		Posts:    make([]PostView, len(posts)),
		Page:     page,
		PageSize: s.pageSize,
		Total:    total,
		HasNext:  int64(page*s.pageSize) < total,
	}
	for i, post := range posts {
		result.Posts[i] = toView(post)
	}
	return result, nil
}

func toView(post models.Post) PostView {
	view := PostView{
		ID:          post.ID,
		Text:        post.Text,
		PublishedAt: post.PublishedAt,
		Author:      post.User.Handle,
		AuthorName:  post.User.Name,
		HasImage:    post.ImagePath != "",
	}
	if post.Group != nil {
		view.Group = post.Group.Slug
	}
	return view
}
