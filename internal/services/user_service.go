package services

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/devlink/backend/internal/models"
	"github.com/devlink/backend/internal/storage"
)

// UserService is the credential store: registration, login and identity lookup.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// GravatarURL derives the deterministic avatar for an email address.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}

// MemoryUserService keeps users in maps guarded by a mutex, with optional JSON
// file persistence. The Mongo implementation is the production path; this one
// backs tests and local development.
type MemoryUserService struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	byEmail map[string]string // email -> userID
	store   *storage.JSONStore
}

func NewMemoryUserService() *MemoryUserService {
	return &MemoryUserService{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

// NewPersistentUserService is a MemoryUserService that loads from and saves to
// a JSON file under dataDir.
func NewPersistentUserService(dataDir string) (*MemoryUserService, error) {
	store, err := storage.NewJSONStore(dataDir, "users.json")
	if err != nil {
		return nil, err
	}

	s := NewMemoryUserService()
	s.store = store

	var saved []*models.User
	if err := store.Load(&saved); err != nil {
		return nil, err
	}
	for _, u := range saved {
		s.users[u.ID] = u
		s.byEmail[u.Email] = u.ID
	}
	return s, nil
}

func (s *MemoryUserService) persist() {
	if s.store == nil {
		return
	}
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	_ = s.store.Save(users)
}

func (s *MemoryUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[req.Email]; exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Avatar:       GravatarURL(req.Email),
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}

	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	s.persist()

	return user, nil
}

func (s *MemoryUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, exists := s.byEmail[email]
	if !exists {
		return nil, ErrInvalidCredentials
	}

	user := s.users[userID]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *MemoryUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}

	return user, nil
}

func (s *MemoryUserService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return ErrUserNotFound
	}

	delete(s.byEmail, user.Email)
	delete(s.users, id)
	s.persist()

	return nil
}
