package localstate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gowtham-garimella/pixora/internal/model"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Session applies client actions to a State and writes the full state back
// to the store after every mutation.
type Session struct {
	store Store
	state *State
	now   func() time.Time
}

// Open loads the persisted state from store.
func Open(ctx context.Context, store Store) (*Session, error) {
	st, err := Load(ctx, store)
	if err != nil {
		return nil, err
	}
	return &Session{store: store, state: st, now: time.Now}, nil
}

func (s *Session) State() *State {
	return s.state
}

func (s *Session) save(ctx context.Context) error {
	return Save(ctx, s.store, s.state)
}

func (s *Session) Login(ctx context.Context, username string) (*Profile, error) {
	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < model.MinUsernameLength {
		return nil, model.ErrUsernameTooShort
	}

	s.state.User = &Profile{
		Username:    username,
		DisplayName: username,
		Bio:         model.DefaultBio,
	}
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return s.state.User, nil
}

// Logout forgets the current user. Posts stay.
func (s *Session) Logout(ctx context.Context) error {
	s.state.User = nil
	return s.save(ctx)
}

// CreatePost puts a new post at the top of the feed.
func (s *Session) CreatePost(ctx context.Context, imageURL, caption string) (*Post, error) {
	user, err := s.currentUser()
	if err != nil {
		return nil, err
	}

	imageURL = strings.TrimSpace(imageURL)
	caption = strings.TrimSpace(caption)
	if imageURL == "" || caption == "" {
		return nil, model.ErrPostFieldsNeeded
	}

	now := s.now().UnixMilli()
	post := Post{
		ID:                s.nextPostID(now),
		AuthorUsername:    user.Username,
		AuthorDisplayName: displayName(user),
		ImageURL:          imageURL,
		Caption:           caption,
		Likes:             []string{},
		Comments:          []Comment{},
		CreatedAt:         now,
	}
	s.state.Posts = append([]Post{post}, s.state.Posts...)

	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return &s.state.Posts[0], nil
}

// ToggleLike likes the post for the current user, or unlikes it if they
// already did. It reports whether the post is liked afterwards.
func (s *Session) ToggleLike(ctx context.Context, postID string) (bool, error) {
	user, err := s.currentUser()
	if err != nil {
		return false, err
	}
	post := s.find(postID)
	if post == nil {
		return false, model.ErrPostNotFound
	}

	liked := true
	if idx := slices.Index(post.Likes, user.Username); idx >= 0 {
		post.Likes = append(post.Likes[:idx], post.Likes[idx+1:]...)
		liked = false
	} else {
		post.Likes = append(post.Likes, user.Username)
	}

	if err := s.save(ctx); err != nil {
		return false, err
	}
	return liked, nil
}

func (s *Session) AddComment(ctx context.Context, postID, text string) (*Comment, error) {
	user, err := s.currentUser()
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.ErrTextRequired
	}
	post := s.find(postID)
	if post == nil {
		return nil, model.ErrPostNotFound
	}

	now := s.now().UnixMilli()
	post.Comments = append(post.Comments, Comment{
		ID:             fmt.Sprintf("c_%d_%s", now, strings.ReplaceAll(uuid.NewString(), "-", "")[:12]),
		AuthorUsername: user.Username,
		Text:           text,
		CreatedAt:      now,
	})

	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return &post.Comments[len(post.Comments)-1], nil
}

// DeletePost removes one of the current user's posts.
func (s *Session) DeletePost(ctx context.Context, postID string) error {
	user, err := s.currentUser()
	if err != nil {
		return err
	}

	for i, p := range s.state.Posts {
		if p.ID != postID {
			continue
		}
		if p.AuthorUsername != user.Username {
			return model.ErrNotPostOwner
		}
		s.state.Posts = append(s.state.Posts[:i], s.state.Posts[i+1:]...)
		return s.save(ctx)
	}
	return model.ErrPostNotFound
}

func (s *Session) SetFilter(filter string) error {
	switch filter {
	case FilterAll, FilterMine:
		s.state.Filter = filter
		return nil
	}
	return model.ErrInvalidScope
}

func (s *Session) SetSearch(query string) {
	s.state.Search = query
}

// Visible returns the posts the feed shows under the current filter and
// search, newest first. Search matches captions ignoring case.
func (s *Session) Visible() []Post {
	query := strings.ToLower(strings.TrimSpace(s.state.Search))
	mine := s.state.Filter == FilterMine && s.state.User != nil

	out := []Post{}
	for _, p := range s.state.Posts {
		if mine && p.AuthorUsername != s.state.User.Username {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Caption), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// MyPostCount counts posts authored by the current user.
func (s *Session) MyPostCount() int {
	if s.state.User == nil {
		return 0
	}
	n := 0
	for _, p := range s.state.Posts {
		if p.AuthorUsername == s.state.User.Username {
			n++
		}
	}
	return n
}

func (s *Session) currentUser() (*Profile, error) {
	if s.state.User == nil {
		return nil, ErrNotLoggedIn
	}
	return s.state.User, nil
}

func (s *Session) find(postID string) *Post {
	for i := range s.state.Posts {
		if s.state.Posts[i].ID == postID {
			return &s.state.Posts[i]
		}
	}
	return nil
}

// nextPostID returns post_<ms>, stepping forward past ids already taken.
func (s *Session) nextPostID(ms int64) string {
	for {
		id := fmt.Sprintf("post_%d", ms)
		if s.find(id) == nil {
			return id
		}
		ms++
	}
}

func displayName(p *Profile) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}
