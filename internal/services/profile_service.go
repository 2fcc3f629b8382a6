package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devlink/backend/internal/models"
)

// ProfileService owns the one-profile-per-user documents and their nested
// experience/education lists.
type ProfileService interface {
	Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	// Delete removes the profile (if any) and then the user record itself.
	// The two deletes are not transactional; the profile goes first so a
	// failure never leaves a profile without its user.
	Delete(ctx context.Context, userID string) error
	AddExperience(ctx context.Context, userID string, req *models.AddExperienceRequest) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, entryID string) (*models.Profile, error)
	AddEducation(ctx context.Context, userID string, req *models.AddEducationRequest) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID, entryID string) (*models.Profile, error)
}

// ParseSkills splits a comma-separated skills string into a trimmed list.
func ParseSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type MemoryProfileService struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile // userID -> profile
	users    UserService
}

func NewMemoryProfileService(users UserService) *MemoryProfileService {
	return &MemoryProfileService{
		profiles: make(map[string]*models.Profile),
		users:    users,
	}
}

// withOwner fills in the owner's current name/avatar on a copy, leaving the
// stored document untouched.
func (s *MemoryProfileService) withOwner(ctx context.Context, prof *models.Profile) *models.Profile {
	out := *prof
	if user, err := s.users.GetByID(ctx, prof.User.ID); err == nil {
		out.User.Name = user.Name
		out.User.Avatar = user.Avatar
	}
	return &out
}

func (s *MemoryProfileService) Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		prof = &models.Profile{
			ID:         uuid.New().String(),
			User:       models.ProfileUser{ID: userID},
			Experience: []models.Experience{},
			Education:  []models.Education{},
			CreatedAt:  time.Now().UTC(),
		}
		s.profiles[userID] = prof
	}

	prof.Status = req.Status
	prof.Skills = ParseSkills(req.Skills)
	if req.Company != nil {
		prof.Company = *req.Company
	}
	if req.Website != nil {
		prof.Website = *req.Website
	}
	if req.Location != nil {
		prof.Location = *req.Location
	}
	if req.Bio != nil {
		prof.Bio = *req.Bio
	}
	if req.GithubUsername != nil {
		prof.GithubUsername = *req.GithubUsername
	}
	if req.Youtube != nil {
		prof.Social.Youtube = *req.Youtube
	}
	if req.Twitter != nil {
		prof.Social.Twitter = *req.Twitter
	}
	if req.Facebook != nil {
		prof.Social.Facebook = *req.Facebook
	}
	if req.Linkedin != nil {
		prof.Social.Linkedin = *req.Linkedin
	}
	if req.Instagram != nil {
		prof.Social.Instagram = *req.Instagram
	}

	return s.withOwner(ctx, prof), nil
}

func (s *MemoryProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Profile, 0, len(s.profiles))
	for _, prof := range s.profiles {
		out = append(out, s.withOwner(ctx, prof))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}
	return s.withOwner(ctx, prof), nil
}

func (s *MemoryProfileService) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	delete(s.profiles, userID)
	s.mu.Unlock()

	return s.users.Delete(ctx, userID)
}

func (s *MemoryProfileService) AddExperience(ctx context.Context, userID string, req *models.AddExperienceRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	entry := models.Experience{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}

	// Newest entries go first.
	prof.Experience = append([]models.Experience{entry}, prof.Experience...)

	return s.withOwner(ctx, prof), nil
}

func (s *MemoryProfileService) RemoveExperience(ctx context.Context, userID, entryID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	idx := -1
	for i, e := range prof.Experience {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrExperienceNotFound
	}

	prof.Experience = append(prof.Experience[:idx], prof.Experience[idx+1:]...)

	return s.withOwner(ctx, prof), nil
}

func (s *MemoryProfileService) AddEducation(ctx context.Context, userID string, req *models.AddEducationRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	entry := models.Education{
		ID:           uuid.New().String(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}

	prof.Education = append([]models.Education{entry}, prof.Education...)

	return s.withOwner(ctx, prof), nil
}

func (s *MemoryProfileService) RemoveEducation(ctx context.Context, userID, entryID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	idx := -1
	for i, e := range prof.Education {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrEducationNotFound
	}

	prof.Education = append(prof.Education[:idx], prof.Education[idx+1:]...)

	return s.withOwner(ctx, prof), nil
}
