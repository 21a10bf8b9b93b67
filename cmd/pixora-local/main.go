// Command pixora-local runs the feed entirely offline against a local
// SQLite file. Every command loads the saved state, applies one action and
// writes the state back.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gowtham-garimella/pixora/internal/config"
	"github.com/gowtham-garimella/pixora/internal/localstate"
	"github.com/gowtham-garimella/pixora/internal/logger"
)

const usage = `usage: pixora-local [flags] <command> [args]

commands:
  login <username>            sign in (no password in local mode)
  logout                      sign out, keeping posts
  whoami                      show the profile and own post count
  post <imageUrl> <caption>   create a post
  like <postId>               like or unlike a post
  comment <postId> <text>     comment on a post
  delete <postId>             delete one of your posts
  feed                        list posts (see -mine, -search)

flags:
`

func main() {
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	dbPath := flag.String("db", cfg.LocalDBPath, "path of the local state file")
	mine := flag.Bool("mine", false, "feed: only your own posts")
	search := flag.String("search", "", "feed: caption filter, case-insensitive")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	store, err := localstate.OpenSQLite(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dbPath).Msg("Failed to open local state")
	}
	defer store.Close()

	ctx := context.Background()
	session, err := localstate.Open(ctx, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load local state")
	}

	if *mine {
		_ = session.SetFilter(localstate.FilterMine)
	}
	session.SetSearch(*search)

	if err := run(ctx, session, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, s *localstate.Session, cmd string, args []string) error {
	switch cmd {
	case "login":
		if len(args) != 1 {
			return fmt.Errorf("login takes exactly one username")
		}
		user, err := s.Login(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as @%s\n", user.Username)

	case "logout":
		if err := s.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Logged out")

	case "whoami":
		user := s.State().User
		if user == nil {
			return localstate.ErrNotLoggedIn
		}
		fmt.Printf("@%s (%s)\n%s\nposts: %d\n", user.Username, user.DisplayName, user.Bio, s.MyPostCount())

	case "post":
		if len(args) < 2 {
			return fmt.Errorf("post needs an image url and a caption")
		}
		post, err := s.CreatePost(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Println("Created", post.ID)

	case "like":
		if len(args) != 1 {
			return fmt.Errorf("like takes exactly one post id")
		}
		liked, err := s.ToggleLike(ctx, args[0])
		if err != nil {
			return err
		}
		if liked {
			fmt.Println("Liked", args[0])
		} else {
			fmt.Println("Unliked", args[0])
		}

	case "comment":
		if len(args) < 2 {
			return fmt.Errorf("comment needs a post id and text")
		}
		c, err := s.AddComment(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Println("Commented", c.ID)

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("delete takes exactly one post id")
		}
		if err := s.DeletePost(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])

	case "feed":
		printFeed(s)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func printFeed(s *localstate.Session) {
	posts := s.Visible()
	if len(posts) == 0 {
		fmt.Println("No posts yet.")
		return
	}

	var viewer string
	if u := s.State().User; u != nil {
		viewer = u.Username
	}

	now := time.Now()
	for _, p := range posts {
		liked := ""
		for _, name := range p.Likes {
			if name == viewer {
				liked = " (you liked this)"
				break
			}
		}

		fmt.Printf("%s  %s @%s  %s\n", p.ID, p.AuthorDisplayName, p.AuthorUsername, localstate.TimeAgo(p.CreatedAt, now))
		fmt.Printf("  %s\n  %s\n", p.ImageURL, p.Caption)
		fmt.Printf("  %d likes%s, %d comments\n", len(p.Likes), liked, len(p.Comments))
		for _, c := range p.Comments {
			fmt.Printf("    @%s: %s\n", c.AuthorUsername, c.Text)
		}
		fmt.Println()
	}
}
