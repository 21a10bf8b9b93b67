package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/gowtham-garimella/pixora/internal/model"
	"github.com/gowtham-garimella/pixora/internal/repository"
)

// UserService handles business logic for user operations
type UserService struct {
	repo     repository.UserRepository
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
}

func NewUserService(repo repository.UserRepository, postRepo repository.PostRepository, likeRepo repository.LikeRepository) *UserService {
	return &UserService{
		repo:     repo,
		postRepo: postRepo,
		likeRepo: likeRepo,
	}
}

// Register creates a new account. The username is stored trimmed with its
// original case; uniqueness ignores case.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	if utf8.RuneCountInString(username) < model.MinUsernameLength {
		return nil, model.ErrUsernameTooShort
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, model.ErrPasswordRequired
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		DisplayName:  username,
		Bio:          model.DefaultBio,
	}

	// A concurrent registration can still win the unique index; the repository
	// reports that as ErrUsernameExists.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUsernameExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, nil
}

// Login authenticates a user with username and password.
// Unknown users and wrong passwords are indistinguishable.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Me returns the caller's profile with their post and like counts.
func (s *UserService) Me(ctx context.Context, userID int64) (*model.MeResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	likes, err := s.likeRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.MeResponse{
		User:  user,
		Stats: model.UserStats{Posts: posts, LikesGiven: likes},
	}, nil
}

// UpdateProfile applies the non-nil fields of req to the caller's record.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if utf8.RuneCountInString(name) < model.MinDisplayNameLength {
			return nil, model.ErrDisplayNameTooShort
		}
		user.DisplayName = name
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = nilIfBlank(*req.AvatarURL)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAvatar stores url as the caller's avatar and returns the URL it replaced.
func (s *UserService) SetAvatar(ctx context.Context, userID int64, url string) (*model.User, string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	var previous string
	if user.AvatarURL != nil {
		previous = *user.AvatarURL
	}

	user.AvatarURL = &url
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, "", err
	}
	return user, previous, nil
}

func nilIfBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
