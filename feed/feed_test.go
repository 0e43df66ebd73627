package feed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"server/cache"
	"server/db"
	"server/models"
)

const testTTL = 20 * time.Second

type testEnv struct {
	svc *Service
	now time.Time
}

func (e *testEnv) advance(d time.Duration) { e.now = e.now.Add(d) }

func setupFeedTest(t *testing.T, pageSize int) *testEnv {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	db.Instance = gdb
	models.Init()

	env := &testEnv{now: time.Unix(1700000000, 0)}
	feedCache := cache.NewMemoryCache(testTTL, func() time.Time { return env.now })
	env.svc = NewService(gdb, feedCache, pageSize)
	return env
}

func createUser(t *testing.T, handle string) models.User {
	t.Helper()
	u, err := models.UserCreate(handle, handle, handle+"@example.com", "pass")
	require.NoError(t, err)
	return u
}

func createPost(t *testing.T, userID uint64, text string, publishedAt int64, groupID *uint64) models.Post {
	t.Helper()
	p := models.Post{PublishedAt: publishedAt, UserID: userID, GroupID: groupID, Text: text}
	require.NoError(t, db.Instance.Create(&p).Error)
	return p
}

// Posts are totally ordered by (published_at, id) descending and consecutive
// pages neither skip nor repeat anything, even with equal timestamps.
func TestGlobalFeedOrderingAndPagination(t *testing.T) {
	env := setupFeedTest(t, 3)
	ctx := context.Background()
	rick := createUser(t, "rick")

	base := int64(1000)
	// Three posts share one timestamp to exercise the id tie-break
	for _, ts := range []int64{base, base + 10, base + 10, base + 10, base + 20, base + 30, base + 30} {
		createPost(t, rick.ID, "post", ts, nil)
	}

	var all []PostView
	for page := 1; ; page++ {
		result, err := env.svc.Global(ctx, page)
		require.NoError(t, err)
		require.Equal(t, int64(7), result.Total)
		all = append(all, result.Posts...)
		if !result.HasNext {
			break
		}
		require.Len(t, result.Posts, 3)
	}
	require.Len(t, all, 7)

	seen := map[uint64]bool{}
	for i, post := range all {
		require.False(t, seen[post.ID], "post %d duplicated across pages", post.ID)
		seen[post.ID] = true
		if i == 0 {
			continue
		}
		prev := all[i-1]
		if post.PublishedAt == prev.PublishedAt {
			require.Less(t, post.ID, prev.ID, "id tie-break must be descending")
		} else {
			require.Less(t, post.PublishedAt, prev.PublishedAt, "published_at must be descending")
		}
	}
}

// A new post may be invisible on the global feed for up to one TTL window;
// an explicit cache clear makes it visible immediately.
func TestGlobalFeedCacheStaleness(t *testing.T) {
	env := setupFeedTest(t, 10)
	ctx := context.Background()
	rick := createUser(t, "rick")
	createPost(t, rick.ID, "first", 1000, nil)

	result, err := env.svc.Global(ctx, 1)
	require.NoError(t, err)
	require.Len(t, result.Posts, 1)

	createPost(t, rick.ID, "second", 2000, nil)

	// Still within the TTL window: the cached page is served as-is
	result, err = env.svc.Global(ctx, 1)
	require.NoError(t, err)
	require.Len(t, result.Posts, 1)

	env.svc.ClearCache(ctx)
	result, err = env.svc.Global(ctx, 1)
	require.NoError(t, err)
	require.Len(t, result.Posts, 2)
	require.Equal(t, "second", result.Posts[0].Text)
}

func TestGlobalFeedCacheExpiry(t *testing.T) {
	env := setupFeedTest(t, 10)
	ctx := context.Background()
	rick := createUser(t, "rick")
	createPost(t, rick.ID, "first", 1000, nil)

	_, err := env.svc.Global(ctx, 1)
	require.NoError(t, err)
	createPost(t, rick.ID, "second", 2000, nil)

	env.advance(testTTL + time.Second)
	result, err := env.svc.Global(ctx, 1)
	require.NoError(t, err)
	require.Len(t, result.Posts, 2, "expired page must be recomputed")
}

func TestGroupFeed(t *testing.T) {
	env := setupFeedTest(t, 10)
	ctx := context.Background()
	rick := createUser(t, "rick")
	group := models.Group{Title: "Science", Slug: "science", Description: "strictly empirical"}
	require.NoError(t, db.Instance.Create(&group).Error)

	createPost(t, rick.ID, "in group", 1000, &group.ID)
	createPost(t, rick.ID, "no group", 2000, nil)

	result, err := env.svc.Group(ctx, "science", 1)
	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	require.Equal(t, "in group", result.Posts[0].Text)
	require.Equal(t, "science", result.Posts[0].Group)

	_, err = env.svc.Group(ctx, "no-such-slug", 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProfileFeedFollowState(t *testing.T) {
	env := setupFeedTest(t, 10)
	ctx := context.Background()
	rick := createUser(t, "rick")
	alice := createUser(t, "alice")
	createPost(t, rick.ID, "hello", 1000, nil)

	require.NoError(t, env.svc.Follow(ctx, alice.ID, "rick"))

	// Anonymous viewer: counts only, no follow state
	profile, err := env.svc.Profile(ctx, "rick", 0, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), profile.Followers)
	require.Equal(t, int64(0), profile.Following)
	require.False(t, profile.ViewerFollows)
	require.False(t, profile.CanFollow)
	require.Len(t, profile.Posts, 1)

	// Authenticated follower
	profile, err = env.svc.Profile(ctx, "rick", alice.ID, 1)
	require.NoError(t, err)
	require.True(t, profile.ViewerFollows)
	require.True(t, profile.CanFollow)

	// Own profile is never followable
	profile, err = env.svc.Profile(ctx, "rick", rick.ID, 1)
	require.NoError(t, err)
	require.False(t, profile.CanFollow)

	_, err = env.svc.Profile(ctx, "nobody", 0, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSelfFollowIsNoOp(t *testing.T) {
	env := setupFeedTest(t, 10)
	ctx := context.Background()
	rick := createUser(t, "rick")

	require.NoError(t, env.svc.Follow(ctx, rick.ID, "rick"))
	var cnt int64
	db.Instance.Model(&models.Follow{}).Count(&cnt)
	require.Zero(t, cnt, "self-follow must not create a record")
}

// A post by author X appears in the personalized feed iff the viewer follows
// X at query time; zero follows means an empty page, not an error.
func TestFollowingFeedFilter(t *testing.T) {
	env := setupFeedTest(t, 10)
	ctx := context.Background()
	rick := createUser(t, "rick")
	morty := createUser(t, "morty")
	alice := createUser(t, "alice")
	createPost(t, rick.ID, "by rick", 1000, nil)
	createPost(t, morty.ID, "by morty", 2000, nil)

	result, err := env.svc.Following(ctx, alice.ID, 1)
	require.NoError(t, err)
	require.Empty(t, result.Posts)
	require.Zero(t, result.Total)

	require.NoError(t, env.svc.Follow(ctx, alice.ID, "rick"))
	result, err = env.svc.Following(ctx, alice.ID, 1)
	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	require.Equal(t, "by rick", result.Posts[0].Text)

	require.NoError(t, env.svc.Follow(ctx, alice.ID, "morty"))
	result, err = env.svc.Following(ctx, alice.ID, 1)
	require.NoError(t, err)
	require.Len(t, result.Posts, 2)
	require.Equal(t, "by morty", result.Posts[0].Text, "newest first")

	_, err = env.svc.Following(ctx, 0, 1)
	require.ErrorIs(t, err, ErrUnauthorized)
}

// The end-to-end follow/unfollow scenario from the original app
func TestFollowUnfollowScenario(t *testing.T) {
	env := setupFeedTest(t, 10)
	ctx := context.Background()
	rick := createUser(t, "rick")
	alice := createUser(t, "alice")
	createPost(t, rick.ID, "hello", 1000, nil)

	env.svc.ClearCache(ctx)
	global, err := env.svc.Global(ctx, 1)
	require.NoError(t, err)
	require.Len(t, global.Posts, 1)
	require.Equal(t, "hello", global.Posts[0].Text)

	require.NoError(t, env.svc.Follow(ctx, alice.ID, "rick"))
	require.True(t, models.IsFollowing(alice.ID, rick.ID))

	personal, err := env.svc.Following(ctx, alice.ID, 1)
	require.NoError(t, err)
	require.Len(t, personal.Posts, 1)
	require.Equal(t, "hello", personal.Posts[0].Text)

	require.NoError(t, env.svc.Unfollow(ctx, alice.ID, "rick"))
	personal, err = env.svc.Following(ctx, alice.ID, 1)
	require.NoError(t, err)
	require.Empty(t, personal.Posts)
}
