package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/anonto42/nano-feed/backend/internal/models"
)

func TestCreateTweetValidation(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	author := mustSignup(t, svc, "writer")

	_, err := svc.Content.CreateTweet(ctx, author.ID, "   ")
	expectKind(t, err, ErrValidation)

	_, err = svc.Content.CreateTweet(ctx, author.ID, strings.Repeat("a", models.MaxTweetLength+1))
	expectKind(t, err, ErrValidation)

	// length is counted in characters, not bytes
	tweet, err := svc.Content.CreateTweet(ctx, author.ID, strings.Repeat("é", models.MaxTweetLength))
	if err != nil {
		t.Fatalf("CreateTweet at limit: %v", err)
	}
	if tweet.ID == 0 || tweet.UserID != author.ID {
		t.Fatalf("unexpected tweet %+v", tweet)
	}

	_, err = svc.Content.CreateTweet(ctx, 999, "orphan")
	expectKind(t, err, ErrNotFound)
}

func TestCreateTweetUsesClock(t *testing.T) {
	svc, clock := setupTestServices(t)
	author := mustSignup(t, svc, "writer")

	before := clock.now
	tweet := mustTweet(t, svc, author.ID, "tick")
	if !tweet.CreatedAt.After(before) || tweet.CreatedAt.Location().String() != "UTC" {
		t.Fatalf("expected a UTC timestamp after %v, got %v", before, tweet.CreatedAt)
	}
}

func TestToggleLikeIsAnInvolution(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	author := mustSignup(t, svc, "author")
	fan := mustSignup(t, svc, "fan")
	other := mustSignup(t, svc, "other")
	tweet := mustTweet(t, svc, author.ID, "like me")

	state, err := svc.Content.ToggleLike(ctx, fan.ID, tweet.ID)
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !state.Liked || state.LikesCount != 1 {
		t.Fatalf("expected liked with 1 like, got %+v", state)
	}

	state, err = svc.Content.ToggleLike(ctx, other.ID, tweet.ID)
	if err != nil || state.LikesCount != 2 {
		t.Fatalf("expected 2 likes, got %+v (%v)", state, err)
	}

	state, err = svc.Content.ToggleLike(ctx, fan.ID, tweet.ID)
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if state.Liked || state.LikesCount != 1 {
		t.Fatalf("expected unliked with 1 like, got %+v", state)
	}

	liked, err := svc.Content.HasLiked(ctx, fan.ID, tweet.ID)
	if err != nil || liked {
		t.Fatalf("expected fan not to like the tweet, got %v (%v)", liked, err)
	}
	count, err := svc.Content.LikesCount(ctx, tweet.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 like, got %d (%v)", count, err)
	}

	_, err = svc.Content.ToggleLike(ctx, fan.ID, 12345)
	expectKind(t, err, ErrNotFound)
}

func TestLikeNotifications(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	author := mustSignup(t, svc, "author")
	fan := mustSignup(t, svc, "fan")
	tweet := mustTweet(t, svc, author.ID, "notify me")

	if _, err := svc.Content.ToggleLike(ctx, author.ID, tweet.ID); err != nil {
		t.Fatalf("self like: %v", err)
	}
	unread, err := svc.Notifications.UnreadCount(ctx, author.ID)
	if err != nil || unread != 0 {
		t.Fatalf("self like must not notify, got %d (%v)", unread, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Content.ToggleLike(ctx, fan.ID, tweet.ID); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}
	notifications, err := svc.Notifications.ListFor(ctx, author.ID)
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("expected a notification per new like, got %d", len(notifications))
	}
	for _, n := range notifications {
		if n.Type != models.NotificationLike || n.ActorID != fan.ID {
			t.Fatalf("unexpected notification %+v", n)
		}
	}
}

func TestEngagementRequiresKnownUser(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	author := mustSignup(t, svc, "author")
	tweet := mustTweet(t, svc, author.ID, "who is there")

	_, err := svc.Content.ToggleLike(ctx, 9999, tweet.ID)
	expectKind(t, err, ErrNotFound)
	_, err = svc.Content.AddComment(ctx, 9999, tweet.ID, "ghost")
	expectKind(t, err, ErrNotFound)

	likes, err := svc.Content.LikesCount(ctx, tweet.ID)
	if err != nil || likes != 0 {
		t.Fatalf("expected 0 likes, got %d (%v)", likes, err)
	}
	comments, err := svc.Content.CommentsCount(ctx, tweet.ID)
	if err != nil || comments != 0 {
		t.Fatalf("expected 0 comments, got %d (%v)", comments, err)
	}
	unread, err := svc.Notifications.UnreadCount(ctx, author.ID)
	if err != nil || unread != 0 {
		t.Fatalf("expected no notifications, got %d (%v)", unread, err)
	}
}

func TestAddComment(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	author := mustSignup(t, svc, "author")
	reader := mustSignup(t, svc, "reader")
	tweet := mustTweet(t, svc, author.ID, "discuss")

	_, err := svc.Content.AddComment(ctx, reader.ID, tweet.ID, "  ")
	expectKind(t, err, ErrValidation)
	_, err = svc.Content.AddComment(ctx, reader.ID, tweet.ID, strings.Repeat("c", models.MaxCommentLength+1))
	expectKind(t, err, ErrValidation)
	_, err = svc.Content.AddComment(ctx, reader.ID, 777, "hello")
	expectKind(t, err, ErrNotFound)

	first, err := svc.Content.AddComment(ctx, reader.ID, tweet.ID, " first! ")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if first.Content != "first!" {
		t.Fatalf("expected trimmed content, got %q", first.Content)
	}
	if _, err := svc.Content.AddComment(ctx, author.ID, tweet.ID, "thanks"); err != nil {
		t.Fatalf("AddComment by author: %v", err)
	}

	comments, err := svc.Content.Comments(ctx, tweet.ID)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if len(comments) != 2 || comments[0].ID != first.ID {
		t.Fatalf("expected oldest first, got %+v", comments)
	}
	count, err := svc.Content.CommentsCount(ctx, tweet.ID)
	if err != nil || count != 2 {
		t.Fatalf("expected 2 comments, got %d (%v)", count, err)
	}

	notifications, err := svc.Notifications.ListFor(ctx, author.ID)
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Type != models.NotificationComment {
		t.Fatalf("expected one comment notification, got %+v", notifications)
	}
	want := json.Number(strconv.FormatUint(uint64(tweet.ID), 10))
	if got := notifications[0].Payload["tweet_id"]; got != want {
		t.Fatalf("expected payload tweet_id %d, got %#v", tweet.ID, got)
	}
}

func TestDeleteTweetCascades(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	author := mustSignup(t, svc, "author")
	reader := mustSignup(t, svc, "reader")
	tweet := mustTweet(t, svc, author.ID, "short lived #gone")

	if _, err := svc.Content.ToggleLike(ctx, reader.ID, tweet.ID); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if _, err := svc.Content.AddComment(ctx, reader.ID, tweet.ID, "bye"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	err := svc.Content.DeleteTweet(ctx, reader.ID, tweet.ID)
	expectKind(t, err, ErrAuthorization)
	if _, err := svc.Content.GetTweet(ctx, reader.ID, tweet.ID); err != nil {
		t.Fatalf("tweet must survive an unauthorized delete: %v", err)
	}

	if err := svc.Content.DeleteTweet(ctx, author.ID, tweet.ID); err != nil {
		t.Fatalf("DeleteTweet: %v", err)
	}

	if likes := countRows(t, svc, &models.Like{}, "tweet_id = ?", tweet.ID); likes != 0 {
		t.Fatalf("expected no likes, got %d", likes)
	}
	if comments := countRows(t, svc, &models.Comment{}, "tweet_id = ?", tweet.ID); comments != 0 {
		t.Fatalf("expected no comments, got %d", comments)
	}
	if links := countRows(t, svc, &models.TweetHashtag{}, "tweet_id = ?", tweet.ID); links != 0 {
		t.Fatalf("expected no hashtag links, got %d", links)
	}
	if _, err := svc.Identity.GetUser(ctx, author.ID); err != nil {
		t.Fatalf("author must survive tweet deletion: %v", err)
	}

	_, err = svc.Content.GetTweet(ctx, author.ID, tweet.ID)
	expectKind(t, err, ErrNotFound)
	err = svc.Content.DeleteTweet(ctx, author.ID, tweet.ID)
	expectKind(t, err, ErrNotFound)
}

func TestGetTweetWithCounts(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	author := mustSignup(t, svc, "author")
	reader := mustSignup(t, svc, "reader")
	tweet := mustTweet(t, svc, author.ID, "counted #stats")

	if _, err := svc.Content.ToggleLike(ctx, reader.ID, tweet.ID); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if _, err := svc.Content.AddComment(ctx, reader.ID, tweet.ID, "one"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if _, err := svc.Content.AddComment(ctx, author.ID, tweet.ID, "two"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	got, err := svc.Content.GetTweet(ctx, reader.ID, tweet.ID)
	if err != nil {
		t.Fatalf("GetTweet: %v", err)
	}
	if got.LikesCount != 1 || got.CommentsCount != 2 || got.Score != 16 {
		t.Fatalf("unexpected counts likes=%d comments=%d score=%d", got.LikesCount, got.CommentsCount, got.Score)
	}
	if !got.LikedByViewer {
		t.Fatalf("expected reader to have liked the tweet")
	}
	if len(got.Hashtags) != 1 || got.Hashtags[0].Tag != "stats" {
		t.Fatalf("expected preloaded hashtag, got %+v", got.Hashtags)
	}
}

func TestTweetsByUser(t *testing.T) {
	svc, _ := setupTestServices(t)
	ctx := context.Background()
	author := mustSignup(t, svc, "author")
	var ids []uint
	for i := 0; i < 5; i++ {
		ids = append(ids, mustTweet(t, svc, author.ID, "post").ID)
	}

	page, err := svc.Content.TweetsByUser(ctx, 0, author.ID, 2, 2)
	if err != nil {
		t.Fatalf("TweetsByUser: %v", err)
	}
	if page.TotalItems != 5 || !equalIDs(tweetIDs(page.Items), []uint{ids[2], ids[1]}) {
		t.Fatalf("unexpected page total=%d ids=%v", page.TotalItems, tweetIDs(page.Items))
	}

	_, err = svc.Content.TweetsByUser(ctx, 0, 404, 1, 10)
	expectKind(t, err, ErrNotFound)
}
