package localstate

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gowtham-garimella/pixora/internal/model"
)

// =============================================================================
// Helpers
// =============================================================================

type memStore struct {
	values map[string]string
	setErr error
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) Set(ctx context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

// newTestSession returns a session whose clock advances one second per call.
func newTestSession(t *testing.T, store Store) *Session {
	t.Helper()
	s, err := Open(context.Background(), store)
	require.NoError(t, err)

	clock := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func loggedIn(t *testing.T, store Store, username string) *Session {
	t.Helper()
	s := newTestSession(t, store)
	_, err := s.Login(context.Background(), username)
	require.NoError(t, err)
	return s
}

// =============================================================================
// Load / Save
// =============================================================================

func TestLoad_EmptyStore(t *testing.T) {
	st, err := Load(context.Background(), newMemStore())

	require.NoError(t, err)
	assert.Nil(t, st.User)
	assert.NotNil(t, st.Posts)
	assert.Empty(t, st.Posts)
	assert.Equal(t, FilterAll, st.Filter)
}

func TestLoad_CorruptValuesFallBack(t *testing.T) {
	store := newMemStore()
	store.values[KeyUser] = "{not json"
	store.values[KeyPosts] = `{"posts":"wrong shape"}`

	st, err := Load(context.Background(), store)

	require.NoError(t, err)
	assert.Nil(t, st.User)
	assert.Empty(t, st.Posts)
}

func TestLoad_NullUser(t *testing.T) {
	store := newMemStore()
	store.values[KeyUser] = "null"
	store.values[KeyPosts] = `[{"id":"post_1","authorUsername":"bob","caption":"hi"}]`

	st, err := Load(context.Background(), store)

	require.NoError(t, err)
	assert.Nil(t, st.User)
	require.Len(t, st.Posts, 1)
	assert.NotNil(t, st.Posts[0].Likes)
	assert.NotNil(t, st.Posts[0].Comments)
}

func TestSaveLoad_RoundTripThroughSQLite(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	s := loggedIn(t, store, "alice")
	post, err := s.CreatePost(ctx, "https://img/1.jpg", "Sunset")
	require.NoError(t, err)
	_, err = s.ToggleLike(ctx, post.ID)
	require.NoError(t, err)
	_, err = s.AddComment(ctx, post.ID, "first!")
	require.NoError(t, err)

	reloaded, err := Load(ctx, store)
	require.NoError(t, err)

	require.NotNil(t, reloaded.User)
	assert.Equal(t, "alice", reloaded.User.Username)
	assert.Equal(t, model.DefaultBio, reloaded.User.Bio)
	require.Len(t, reloaded.Posts, 1)
	assert.Equal(t, []string{"alice"}, reloaded.Posts[0].Likes)
	require.Len(t, reloaded.Posts[0].Comments, 1)
	assert.Equal(t, "first!", reloaded.Posts[0].Comments[0].Text)
}

func TestSave_PostsEncodedAsArray(t *testing.T) {
	store := newMemStore()

	require.NoError(t, Save(context.Background(), store, &State{}))

	assert.Equal(t, "[]", store.values[KeyPosts])
	_, hasUser := store.values[KeyUser]
	assert.False(t, hasUser)
}

// =============================================================================
// Session
// =============================================================================

func TestSession_Login(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newTestSession(t, store)

	_, err := s.Login(ctx, " al ")
	assert.ErrorIs(t, err, model.ErrUsernameTooShort)
	assert.Nil(t, s.State().User)

	user, err := s.Login(ctx, "  alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice", user.DisplayName)
	assert.JSONEq(t, `{"username":"alice","displayName":"alice","bio":"`+model.DefaultBio+`"}`, store.values[KeyUser])

	require.NoError(t, s.Logout(ctx))
	assert.Nil(t, s.State().User)
	_, hasUser := store.values[KeyUser]
	assert.False(t, hasUser)
}

func TestSession_RequiresLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newMemStore())

	_, err := s.CreatePost(ctx, "https://img", "hi")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = s.ToggleLike(ctx, "post_1")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = s.AddComment(ctx, "post_1", "x")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.ErrorIs(t, s.DeletePost(ctx, "post_1"), ErrNotLoggedIn)
	assert.Equal(t, 0, s.MyPostCount())
}

func TestSession_CreatePost(t *testing.T) {
	ctx := context.Background()
	s := loggedIn(t, newMemStore(), "alice")

	_, err := s.CreatePost(ctx, "  ", "caption")
	assert.ErrorIs(t, err, model.ErrPostFieldsNeeded)
	_, err = s.CreatePost(ctx, "https://img", "")
	assert.ErrorIs(t, err, model.ErrPostFieldsNeeded)

	first, err := s.CreatePost(ctx, "https://img/1.jpg", "one")
	require.NoError(t, err)
	second, err := s.CreatePost(ctx, "https://img/2.jpg", "two")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^post_\d+$`), first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "alice", second.AuthorDisplayName)

	posts := s.State().Posts
	require.Len(t, posts, 2)
	assert.Equal(t, "two", posts[0].Caption, "newest first")
	assert.Equal(t, 2, s.MyPostCount())
}

func TestSession_PostIDsStayUniqueWithinOneMillisecond(t *testing.T) {
	ctx := context.Background()
	s := loggedIn(t, newMemStore(), "alice")
	frozen := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return frozen }

	a, err := s.CreatePost(ctx, "https://img/a", "a")
	require.NoError(t, err)
	aID := a.ID
	b, err := s.CreatePost(ctx, "https://img/b", "b")
	require.NoError(t, err)

	assert.Equal(t, "post_1700000000000", aID)
	assert.Equal(t, "post_1700000000001", b.ID)
}

func TestSession_ToggleLike(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	alice := loggedIn(t, store, "alice")
	post, err := alice.CreatePost(ctx, "https://img", "hi")
	require.NoError(t, err)
	postID := post.ID

	liked, err := alice.ToggleLike(ctx, postID)
	require.NoError(t, err)
	assert.True(t, liked)

	// bob logs in on the same device and likes too
	bob := loggedIn(t, store, "bob")
	liked, err = bob.ToggleLike(ctx, postID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, []string{"alice", "bob"}, bob.State().Posts[0].Likes)

	liked, err = bob.ToggleLike(ctx, postID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, []string{"alice"}, bob.State().Posts[0].Likes)

	_, err = bob.ToggleLike(ctx, "post_missing")
	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestSession_AddComment(t *testing.T) {
	ctx := context.Background()
	s := loggedIn(t, newMemStore(), "alice")
	post, err := s.CreatePost(ctx, "https://img", "hi")
	require.NoError(t, err)
	postID := post.ID

	_, err = s.AddComment(ctx, postID, "   ")
	assert.ErrorIs(t, err, model.ErrTextRequired)
	_, err = s.AddComment(ctx, "post_missing", "hey")
	assert.ErrorIs(t, err, model.ErrPostNotFound)

	c1, err := s.AddComment(ctx, postID, "  nice ")
	require.NoError(t, err)
	c1ID := c1.ID
	c2, err := s.AddComment(ctx, postID, "again")
	require.NoError(t, err)

	assert.Equal(t, "nice", c1.Text)
	assert.Regexp(t, regexp.MustCompile(`^c_\d+_[0-9a-f]{12}$`), c1ID)
	assert.NotEqual(t, c1ID, c2.ID)

	comments := s.State().Posts[0].Comments
	require.Len(t, comments, 2)
	assert.Equal(t, "again", comments[1].Text, "oldest first")
}

func TestSession_DeletePost(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	alice := loggedIn(t, store, "alice")
	post, err := alice.CreatePost(ctx, "https://img", "alice's")
	require.NoError(t, err)
	postID := post.ID

	bob := loggedIn(t, store, "bob")
	assert.ErrorIs(t, bob.DeletePost(ctx, postID), model.ErrNotPostOwner)
	assert.ErrorIs(t, bob.DeletePost(ctx, "post_missing"), model.ErrPostNotFound)

	require.NoError(t, alice.DeletePost(ctx, postID))
	assert.Empty(t, alice.State().Posts)
	assert.Equal(t, "[]", store.values[KeyPosts])
}

func TestSession_Visible(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	alice := loggedIn(t, store, "alice")
	_, err := alice.CreatePost(ctx, "https://img/1", "Beach day")
	require.NoError(t, err)

	bob := loggedIn(t, store, "bob")
	_, err = bob.CreatePost(ctx, "https://img/2", "Mountain BEACH")
	require.NoError(t, err)
	_, err = bob.CreatePost(ctx, "https://img/3", "City lights")
	require.NoError(t, err)

	assert.Len(t, bob.Visible(), 3)

	require.NoError(t, bob.SetFilter(FilterMine))
	mine := bob.Visible()
	require.Len(t, mine, 2)
	assert.Equal(t, "City lights", mine[0].Caption)
	assert.Equal(t, 2, bob.MyPostCount())

	bob.SetSearch("  beach ")
	assert.Len(t, bob.Visible(), 1)

	require.NoError(t, bob.SetFilter(FilterAll))
	assert.Len(t, bob.Visible(), 2)

	assert.ErrorIs(t, bob.SetFilter("friends"), model.ErrInvalidScope)
}

func TestSession_SaveFailureSurfaces(t *testing.T) {
	store := newMemStore()
	s := newTestSession(t, store)
	store.setErr = errors.New("disk full")

	_, err := s.Login(context.Background(), "alice")

	assert.EqualError(t, err, "disk full")
}
