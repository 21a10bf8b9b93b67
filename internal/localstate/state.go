package localstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Keys the client state is persisted under.
const (
	KeyUser  = "pixora_user"
	KeyPosts = "pixora_posts"
)

// Feed filters.
const (
	FilterAll  = "all"
	FilterMine = "mine"
)

type Profile struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
}

// Post is a locally stored post. Likes holds the usernames of likers and
// CreatedAt is unix milliseconds.
type Post struct {
	ID                string    `json:"id"`
	AuthorUsername    string    `json:"authorUsername"`
	AuthorDisplayName string    `json:"authorDisplayName"`
	ImageURL          string    `json:"imageUrl"`
	Caption           string    `json:"caption"`
	Likes             []string  `json:"likes"`
	Comments          []Comment `json:"comments"`
	CreatedAt         int64     `json:"createdAt"`
}

type Comment struct {
	ID             string `json:"id"`
	AuthorUsername string `json:"authorUsername"`
	Text           string `json:"text"`
	CreatedAt      int64  `json:"createdAt"`
}

// State is everything the offline client knows. Posts are kept newest first.
// Filter and Search only shape the visible feed and are not persisted.
type State struct {
	User   *Profile
	Posts  []Post
	Filter string
	Search string
}

// Load reads the state from store. Missing or unreadable values fall back to
// an empty state; only store failures are returned.
func Load(ctx context.Context, store Store) (*State, error) {
	st := &State{Posts: []Post{}, Filter: FilterAll}

	raw, ok, err := store.Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	if ok {
		var user Profile
		if err := json.Unmarshal([]byte(raw), &user); err != nil || user.Username == "" {
			log.Warn().Err(err).Str("key", KeyUser).Msg("Discarding unreadable stored user")
		} else {
			st.User = &user
		}
	}

	raw, ok, err = store.Get(ctx, KeyPosts)
	if err != nil {
		return nil, err
	}
	if ok {
		var posts []Post
		if err := json.Unmarshal([]byte(raw), &posts); err != nil {
			log.Warn().Err(err).Str("key", KeyPosts).Msg("Discarding unreadable stored posts")
		} else if posts != nil {
			st.Posts = normalize(posts)
		}
	}

	return st, nil
}

// Save writes the user and the posts back. A nil user removes the user key.
func Save(ctx context.Context, store Store, st *State) error {
	if st.User == nil {
		if err := store.Delete(ctx, KeyUser); err != nil {
			return err
		}
	} else {
		raw, err := json.Marshal(st.User)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		if err := store.Set(ctx, KeyUser, string(raw)); err != nil {
			return err
		}
	}

	posts := st.Posts
	if posts == nil {
		posts = []Post{}
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	return store.Set(ctx, KeyPosts, string(raw))
}

func normalize(posts []Post) []Post {
	for i := range posts {
		if posts[i].Likes == nil {
			posts[i].Likes = []string{}
		}
		if posts[i].Comments == nil {
			posts[i].Comments = []Comment{}
		}
	}
	return posts
}
