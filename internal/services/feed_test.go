package services

import (
	"context"
	"math"
	"testing"

	"github.com/anonto42/nano-feed/backend/internal/models"
)

func TestComposeFeedChronological(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	viewer := mustSignup(t, svc, "viewer")
	friend := mustSignup(t, svc, "friend")
	stranger := mustSignup(t, svc, "stranger")
	mustFollow(t, svc, viewer.ID, friend.ID)

	t1 := mustTweet(t, svc, friend.ID, "one")
	t2 := mustTweet(t, svc, viewer.ID, "two")
	mustTweet(t, svc, stranger.ID, "hidden")
	t3 := mustTweet(t, svc, friend.ID, "three")

	page, err := svc.Feed.ComposeFeed(ctx, viewer.ID, FeedChronological, 1, 10)
	if err != nil {
		t.Fatalf("ComposeFeed: %v", err)
	}
	if !equalIDs(tweetIDs(page.Items), []uint{t3.ID, t2.ID, t1.ID}) {
		t.Fatalf("unexpected order %v", tweetIDs(page.Items))
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i-1].CreatedAt.Before(page.Items[i].CreatedAt) {
			t.Fatalf("feed not in descending timestamp order at %d", i)
		}
	}
	if page.TotalItems != 3 || page.TotalPages != 1 || page.HasNextPage || page.HasPreviousPage {
		t.Fatalf("unexpected page meta %+v", page)
	}
}

func TestComposeFeedRanked(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	viewer := mustSignup(t, svc, "viewer")
	writer := mustSignup(t, svc, "writer")
	fan1 := mustSignup(t, svc, "fan1")
	fan2 := mustSignup(t, svc, "fan2")
	mustFollow(t, svc, viewer.ID, writer.ID)

	old := mustTweet(t, svc, writer.ID, "old but loved")
	mid := mustTweet(t, svc, writer.ID, "discussed")
	tieOld := mustTweet(t, svc, viewer.ID, "quiet")
	tieNew := mustTweet(t, svc, writer.ID, "also quiet")

	// old: 2 likes = 20, mid: 4 comments = 12, ties: 0
	for _, fan := range []uint{fan1.ID, fan2.ID} {
		if _, err := svc.Content.ToggleLike(ctx, fan, old.ID); err != nil {
			t.Fatalf("ToggleLike: %v", err)
		}
	}
	for i := 0; i < 4; i++ {
		if _, err := svc.Content.AddComment(ctx, fan1.ID, mid.ID, "nice"); err != nil {
			t.Fatalf("AddComment: %v", err)
		}
	}
	if _, err := svc.Content.ToggleLike(ctx, viewer.ID, mid.ID); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}

	page, err := svc.Feed.ComposeFeed(ctx, viewer.ID, FeedRanked, 1, 10)
	if err != nil {
		t.Fatalf("ComposeFeed: %v", err)
	}
	want := []uint{mid.ID, old.ID, tieNew.ID, tieOld.ID}
	if !equalIDs(tweetIDs(page.Items), want) {
		t.Fatalf("ranked order = %v, want %v", tweetIDs(page.Items), want)
	}
	if page.Items[0].Score != 22 || page.Items[1].Score != 20 {
		t.Fatalf("unexpected scores %d, %d", page.Items[0].Score, page.Items[1].Score)
	}
	for i := 1; i < len(page.Items); i++ {
		prev, cur := page.Items[i-1], page.Items[i]
		if prev.Score < cur.Score || (prev.Score == cur.Score && prev.CreatedAt.Before(cur.CreatedAt)) {
			t.Fatalf("ranked feed out of order at %d", i)
		}
	}
	if !page.Items[0].LikedByViewer || page.Items[1].LikedByViewer {
		t.Fatalf("unexpected liked flags %v %v", page.Items[0].LikedByViewer, page.Items[1].LikedByViewer)
	}
}

func TestComposeFeedCustomWeights(t *testing.T) {
	clock := newTestClock()
	svc := New(setupTestDB(t), Options{
		Clock:   clock.Now,
		Hasher:  NewBcryptHasher(4),
		Ranking: &Ranking{LikeWeight: 1, CommentWeight: 5},
	})
	ctx := context.Background()
	viewer := mustSignup(t, svc, "viewer")
	liked := mustTweet(t, svc, viewer.ID, "liked")
	commented := mustTweet(t, svc, viewer.ID, "commented")
	fans := []*models.User{mustSignup(t, svc, "f1"), mustSignup(t, svc, "f2")}
	for _, fan := range fans {
		if _, err := svc.Content.ToggleLike(ctx, fan.ID, liked.ID); err != nil {
			t.Fatalf("ToggleLike: %v", err)
		}
	}
	if _, err := svc.Content.AddComment(ctx, fans[0].ID, commented.ID, "hm"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	page, err := svc.Feed.ComposeFeed(ctx, viewer.ID, FeedRanked, 1, 10)
	if err != nil {
		t.Fatalf("ComposeFeed: %v", err)
	}
	if !equalIDs(tweetIDs(page.Items), []uint{commented.ID, liked.ID}) {
		t.Fatalf("unexpected order %v", tweetIDs(page.Items))
	}
}

func TestComposeFeedZeroWeightsAreKept(t *testing.T) {
	clock := newTestClock()
	svc := New(setupTestDB(t), Options{
		Clock:   clock.Now,
		Hasher:  NewBcryptHasher(4),
		Ranking: &Ranking{},
	})
	ctx := context.Background()
	viewer := mustSignup(t, svc, "viewer")
	older := mustTweet(t, svc, viewer.ID, "older")
	newer := mustTweet(t, svc, viewer.ID, "newer")
	for _, fan := range []*models.User{mustSignup(t, svc, "f1"), mustSignup(t, svc, "f2")} {
		if _, err := svc.Content.ToggleLike(ctx, fan.ID, older.ID); err != nil {
			t.Fatalf("ToggleLike: %v", err)
		}
	}

	page, err := svc.Feed.ComposeFeed(ctx, viewer.ID, FeedRanked, 1, 10)
	if err != nil {
		t.Fatalf("ComposeFeed: %v", err)
	}
	if !equalIDs(tweetIDs(page.Items), []uint{newer.ID, older.ID}) {
		t.Fatalf("expected recency order with zero weights, got %v", tweetIDs(page.Items))
	}
	if page.Items[1].Score != 0 {
		t.Fatalf("expected zero score, got %d", page.Items[1].Score)
	}
}

func TestComposeFeedPagination(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	viewer := mustSignup(t, svc, "viewer")
	var ids []uint
	for i := 0; i < 5; i++ {
		ids = append(ids, mustTweet(t, svc, viewer.ID, "post").ID)
	}

	page, err := svc.Feed.ComposeFeed(ctx, viewer.ID, FeedChronological, 2, 2)
	if err != nil {
		t.Fatalf("ComposeFeed: %v", err)
	}
	if !equalIDs(tweetIDs(page.Items), []uint{ids[2], ids[1]}) {
		t.Fatalf("unexpected page 2 %v", tweetIDs(page.Items))
	}
	if page.TotalPages != 3 || !page.HasNextPage || !page.HasPreviousPage {
		t.Fatalf("unexpected meta %+v", page)
	}

	past, err := svc.Feed.ComposeFeed(ctx, viewer.ID, FeedChronological, 9, 2)
	if err != nil {
		t.Fatalf("ComposeFeed past end: %v", err)
	}
	if len(past.Items) != 0 || past.HasNextPage {
		t.Fatalf("expected an empty last page, got %+v", past)
	}

	for _, tc := range []struct{ page, size int }{{0, 10}, {1, 0}, {1, 51}} {
		_, err := svc.Feed.ComposeFeed(ctx, viewer.ID, FeedChronological, tc.page, tc.size)
		expectKind(t, err, ErrValidation)
	}
	_, err = svc.Feed.ComposeFeed(ctx, viewer.ID, FeedMode("popular"), 1, 10)
	expectKind(t, err, ErrValidation)
	_, err = svc.Feed.ComposeFeed(ctx, 31337, FeedChronological, 1, 10)
	expectKind(t, err, ErrNotFound)
}

func TestHugePageIsEmpty(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	viewer := mustSignup(t, svc, "viewer")
	other := mustSignup(t, svc, "other")
	mustTweet(t, svc, viewer.ID, "only one")
	if _, err := svc.Notifications.Notify(ctx, viewer.ID, other.ID, models.NotificationFollow, nil); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	huge := math.MaxInt/10 + 2
	feed, err := svc.Feed.ComposeFeed(ctx, viewer.ID, FeedChronological, huge, 10)
	if err != nil {
		t.Fatalf("ComposeFeed: %v", err)
	}
	if len(feed.Items) != 0 || feed.TotalItems != 1 || feed.HasNextPage {
		t.Fatalf("expected an empty page, got %+v", feed)
	}

	timeline, err := svc.Content.TweetsByUser(ctx, viewer.ID, viewer.ID, math.MaxInt, 10)
	if err != nil {
		t.Fatalf("TweetsByUser: %v", err)
	}
	if len(timeline.Items) != 0 || timeline.TotalItems != 1 {
		t.Fatalf("expected an empty timeline page, got %+v", timeline)
	}

	notifications, err := svc.Notifications.ListPage(ctx, viewer.ID, huge, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(notifications.Items) != 0 || notifications.TotalItems != 1 {
		t.Fatalf("expected an empty notification page, got %+v", notifications)
	}
}

func TestParseFeedMode(t *testing.T) {
	for in, want := range map[string]FeedMode{"": FeedChronological, "Ranked": FeedRanked, "chronological": FeedChronological} {
		got, err := ParseFeedMode(in)
		if err != nil || got != want {
			t.Errorf("ParseFeedMode(%q) = %q, %v", in, got, err)
		}
	}
	_, err := ParseFeedMode("hot")
	expectKind(t, err, ErrValidation)
}

func TestSignupFollowTweetLikeScenario(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()

	a, err := svc.Auth.Signup(ctx, "a@example.com", "A", testPassword)
	if err != nil {
		t.Fatalf("signup A: %v", err)
	}
	b, err := svc.Auth.Signup(ctx, "b@example.com", "B", testPassword)
	if err != nil {
		t.Fatalf("signup B: %v", err)
	}
	if _, err := svc.Follows.Follow(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("A follows B: %v", err)
	}
	tweet, err := svc.Content.CreateTweet(ctx, b.ID, "hi #intro")
	if err != nil {
		t.Fatalf("B tweets: %v", err)
	}

	feed, err := svc.Feed.ComposeFeed(ctx, a.ID, FeedChronological, 1, 10)
	if err != nil {
		t.Fatalf("ComposeFeed: %v", err)
	}
	if len(feed.Items) != 1 || feed.Items[0].ID != tweet.ID {
		t.Fatalf("expected B's tweet in A's feed, got %v", tweetIDs(feed.Items))
	}

	state, err := svc.Content.ToggleLike(ctx, a.ID, tweet.ID)
	if err != nil {
		t.Fatalf("A likes: %v", err)
	}
	if state.LikesCount != 1 {
		t.Fatalf("expected likesCount 1, got %d", state.LikesCount)
	}

	notifications, err := svc.Notifications.ListFor(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	var unreadLikes int
	for _, n := range notifications {
		if !n.IsRead && n.Type == models.NotificationLike {
			unreadLikes++
		}
	}
	if unreadLikes != 1 {
		t.Fatalf("expected exactly one unread like notification, got %d", unreadLikes)
	}
}
