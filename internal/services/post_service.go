package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devlink/backend/internal/models"
)

// PostService owns the posts feed and the nested like/comment lists.
type PostService interface {
	Create(ctx context.Context, userID, text string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	Delete(ctx context.Context, userID, postID string) error
	Like(ctx context.Context, userID, postID string) ([]models.Like, error)
	Unlike(ctx context.Context, userID, postID string) ([]models.Like, error)
	AddComment(ctx context.Context, userID, postID, text string) ([]models.Comment, error)
	RemoveComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error)
}

type MemoryPostService struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
	users UserService
}

func NewMemoryPostService(users UserService) *MemoryPostService {
	return &MemoryPostService{
		posts: make(map[string]*models.Post),
		users: users,
	}
}

func copyLikes(likes []models.Like) []models.Like {
	out := make([]models.Like, len(likes))
	copy(out, likes)
	return out
}

func copyComments(comments []models.Comment) []models.Comment {
	out := make([]models.Comment, len(comments))
	copy(out, comments)
	return out
}

func (s *MemoryPostService) Create(ctx context.Context, userID, text string) (*models.Post, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post := &models.Post{
		ID:     uuid.New().String(),
		UserID: userID,
		Text:   text,
		// Author fields are a snapshot; later user edits do not propagate.
		Name:      user.Name,
		Avatar:    user.Avatar,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
		CreatedAt: time.Now().UTC(),
	}
	s.posts[post.ID] = post

	out := *post
	return &out, nil
}

func (s *MemoryPostService) List(ctx context.Context) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		p := *post
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryPostService) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.posts[postID]
	if !exists {
		return nil, ErrPostNotFound
	}
	out := *post
	return &out, nil
}

func (s *MemoryPostService) Delete(ctx context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return ErrNotPostOwner
	}

	delete(s.posts, postID)
	return nil
}

func (s *MemoryPostService) Like(ctx context.Context, userID, postID string) ([]models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return nil, ErrPostNotFound
	}

	for _, like := range post.Likes {
		if like.UserID == userID {
			return nil, ErrAlreadyLiked
		}
	}

	post.Likes = append([]models.Like{{UserID: userID}}, post.Likes...)
	return copyLikes(post.Likes), nil
}

func (s *MemoryPostService) Unlike(ctx context.Context, userID, postID string) ([]models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return nil, ErrPostNotFound
	}

	idx := -1
	for i, like := range post.Likes {
		if like.UserID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotYetLiked
	}

	post.Likes = append(post.Likes[:idx], post.Likes[idx+1:]...)
	return copyLikes(post.Likes), nil
}

func (s *MemoryPostService) AddComment(ctx context.Context, userID, postID, text string) ([]models.Comment, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return nil, ErrPostNotFound
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	post.Comments = append([]models.Comment{comment}, post.Comments...)

	return copyComments(post.Comments), nil
}

func (s *MemoryPostService) RemoveComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return nil, ErrPostNotFound
	}

	// Removal is keyed by the comment id, so the caller always deletes the
	// comment they named, not just their first comment in the list.
	idx := -1
	for i, c := range post.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrCommentNotFound
	}
	if post.Comments[idx].UserID != userID {
		return nil, ErrNotCommentOwner
	}

	post.Comments = append(post.Comments[:idx], post.Comments[idx+1:]...)
	return copyComments(post.Comments), nil
}
