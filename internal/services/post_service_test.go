package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlink/backend/internal/models"
)

func newPostFixture(t *testing.T) (*MemoryPostService, *MemoryUserService, *models.User) {
	t.Helper()
	users := NewMemoryUserService()
	user := registerAlice(t, users)
	return NewMemoryPostService(users), users, user
}

func TestCreatePostSnapshotsAuthor(t *testing.T) {
	posts, _, alice := newPostFixture(t)

	post, err := posts.Create(context.Background(), alice.ID, "hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", post.Text)
	assert.Equal(t, alice.ID, post.UserID)
	assert.Equal(t, "Alice", post.Name)
	assert.Equal(t, alice.Avatar, post.Avatar)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)
}

func TestCreatePostUnknownUser(t *testing.T) {
	posts, _, _ := newPostFixture(t)

	_, err := posts.Create(context.Background(), "ghost", "hello")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListPostsNewestFirst(t *testing.T) {
	posts, _, alice := newPostFixture(t)
	ctx := context.Background()

	first, err := posts.Create(ctx, alice.ID, "first")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := posts.Create(ctx, alice.ID, "second")
	require.NoError(t, err)

	list, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestGetPost(t *testing.T) {
	posts, _, alice := newPostFixture(t)
	ctx := context.Background()

	post, err := posts.Create(ctx, alice.ID, "hello")
	require.NoError(t, err)

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	_, err = posts.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePostOwnership(t *testing.T) {
	posts, users, alice := newPostFixture(t)
	ctx := context.Background()

	bob, err := users.Register(ctx, &models.RegisterRequest{
		Name: "Bob", Email: "b@x.com", Password: "secret2",
	})
	require.NoError(t, err)

	post, err := posts.Create(ctx, alice.ID, "hello")
	require.NoError(t, err)

	// A non-owner cannot delete; the post must survive the attempt.
	err = posts.Delete(ctx, bob.ID, post.ID)
	assert.ErrorIs(t, err, ErrNotPostOwner)

	_, err = posts.GetByID(ctx, post.ID)
	require.NoError(t, err)

	require.NoError(t, posts.Delete(ctx, alice.ID, post.ID))
	_, err = posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.ErrorIs(t, posts.Delete(ctx, alice.ID, "missing"), ErrPostNotFound)
}

func TestLikeUnlike(t *testing.T) {
	posts, users, alice := newPostFixture(t)
	ctx := context.Background()

	bob, err := users.Register(ctx, &models.RegisterRequest{
		Name: "Bob", Email: "b@x.com", Password: "secret2",
	})
	require.NoError(t, err)

	post, err := posts.Create(ctx, alice.ID, "hello")
	require.NoError(t, err)

	likes, err := posts.Like(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, alice.ID, likes[0].UserID)

	// Liking twice is rejected and the list stays at one entry.
	_, err = posts.Like(ctx, alice.ID, post.ID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 1)

	// A second user's like is prepended.
	likes, err = posts.Like(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, bob.ID, likes[0].UserID)

	likes, err = posts.Unlike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, bob.ID, likes[0].UserID)

	_, err = posts.Unlike(ctx, alice.ID, post.ID)
	assert.ErrorIs(t, err, ErrNotYetLiked)

	_, err = posts.Like(ctx, alice.ID, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestComments(t *testing.T) {
	posts, _, alice := newPostFixture(t)
	ctx := context.Background()

	post, err := posts.Create(ctx, alice.ID, "hello")
	require.NoError(t, err)

	comments, err := posts.AddComment(ctx, alice.ID, post.ID, "first comment")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "first comment", comments[0].Text)
	assert.Equal(t, "Alice", comments[0].Name)

	comments, err = posts.AddComment(ctx, alice.ID, post.ID, "second comment")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second comment", comments[0].Text)

	_, err = posts.AddComment(ctx, alice.ID, "missing", "text")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestRemoveCommentByID(t *testing.T) {
	posts, users, alice := newPostFixture(t)
	ctx := context.Background()

	bob, err := users.Register(ctx, &models.RegisterRequest{
		Name: "Bob", Email: "b@x.com", Password: "secret2",
	})
	require.NoError(t, err)

	post, err := posts.Create(ctx, alice.ID, "hello")
	require.NoError(t, err)

	_, err = posts.AddComment(ctx, alice.ID, post.ID, "alice older")
	require.NoError(t, err)
	comments, err := posts.AddComment(ctx, alice.ID, post.ID, "alice newer")
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Deleting the older comment removes exactly that one, even though a
	// newer comment by the same author sits ahead of it in the list.
	olderID := comments[1].ID
	remaining, err := posts.RemoveComment(ctx, alice.ID, post.ID, olderID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "alice newer", remaining[0].Text)

	// Only the author may remove a comment.
	_, err = posts.RemoveComment(ctx, bob.ID, post.ID, remaining[0].ID)
	assert.ErrorIs(t, err, ErrNotCommentOwner)

	_, err = posts.RemoveComment(ctx, alice.ID, post.ID, "missing")
	assert.ErrorIs(t, err, ErrCommentNotFound)

	_, err = posts.RemoveComment(ctx, alice.ID, "missing", remaining[0].ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
