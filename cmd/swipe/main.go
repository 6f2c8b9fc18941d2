// Command swipe is a terminal feed client: it signs in with a bearer token,
// shows one recipe card at a time and sends likes and reports to the API.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/swipechef/backend/internal/client"
	"github.com/swipechef/backend/internal/feed"
	"github.com/swipechef/backend/internal/logging"
	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/session"
)

const help = `commands:
  l            like (save) the current recipe
  d            dislike the current recipe
  r [reason]   report the current recipe
  f key=value  set a filter: difficulty, category, prep, tags (comma ids); "f clear" resets
  n            reload the feed
  q            quit`

func main() {
	apiURL := flag.String("api", "http://localhost:8080/api/v1", "API base URL")
	token := flag.String("token", os.Getenv("SWIPECHEF_TOKEN"), "Bearer token (defaults to $SWIPECHEF_TOKEN)")
	pageSize := flag.Int("page", feed.DefaultSessionPageSize, "Cards per page")
	flag.Parse()

	logging.Init(logging.Config{Level: "warn", Format: "console"})

	identity, err := identityFromToken(*token)
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot sign in")
	}

	store := session.NewStore()
	api, err := client.New(client.Config{BaseURL: *apiURL, Tokens: store})
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid api configuration")
	}
	feedSession := feed.NewSession(api, api, store, feed.SessionConfig{PageSize: *pageSize})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() { _ = feedSession.Run(ctx) }()

	store.SignIn(identity)
	waitForPage(ctx, feedSession)

	fmt.Println(help)
	if err := loop(ctx, os.Stdin, os.Stdout, feedSession); err != nil && err != io.EOF {
		logging.Error().Err(err).Msg("input error")
	}
	store.SignOut()
}

// identityFromToken reads the subject and email without verifying the
// signature; the server does that on every request.
func identityFromToken(raw string) (session.Identity, error) {
	if raw == "" {
		return session.Identity{}, fmt.Errorf("no token given")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return session.Identity{}, fmt.Errorf("malformed token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return session.Identity{}, err
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return session.Identity{}, fmt.Errorf("token subject is not a user id: %w", err)
	}
	email, _ := claims["email"].(string)
	return session.Identity{UserID: userID, Email: email, Token: raw}, nil
}

func waitForPage(ctx context.Context, s *feed.Session) {
	deadline := time.After(10 * time.Second)
	for {
		switch s.Snapshot().State {
		case feed.StateReady, feed.StateEmpty, feed.StateFailed:
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func loop(ctx context.Context, in io.Reader, out io.Writer, s *feed.Session) error {
	scanner := bufio.NewScanner(in)
	for {
		render(out, s.Snapshot())
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.EOF
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "q" {
			return nil
		}
		if err := apply(ctx, s, line); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func apply(ctx context.Context, s *feed.Session, line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	snap := s.Snapshot()

	switch cmd {
	case "", "n":
		return s.Load(ctx)
	case "f":
		c, err := parseFilter(snap.Criteria, arg)
		if err != nil {
			return err
		}
		return s.SetCriteria(ctx, c)
	case "l", "d", "r":
		if len(snap.Page) == 0 {
			return fmt.Errorf("no recipe on screen")
		}
		id := snap.Page[0].ID
		switch cmd {
		case "l":
			return s.Like(ctx, id)
		case "d":
			return s.Dislike(ctx, id)
		default:
			return s.Report(ctx, id, strings.TrimSpace(arg))
		}
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func parseFilter(c feed.Criteria, arg string) (feed.Criteria, error) {
	arg = strings.TrimSpace(arg)
	if arg == "clear" {
		return feed.Criteria{}, nil
	}
	key, value, ok := strings.Cut(arg, "=")
	if !ok {
		return c, fmt.Errorf("filters look like key=value")
	}
	switch key {
	case "difficulty":
		d, err := models.ParseDifficulty(strings.ToLower(value))
		if err != nil {
			return c, err
		}
		c.Difficulty = &d
	case "category":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return c, fmt.Errorf("invalid category id")
		}
		c.CategoryID = &id
	case "prep":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return c, fmt.Errorf("invalid prep time")
		}
		c.MaxPrepTime = &n
	case "tags":
		var ids []int64
		for _, part := range strings.Split(value, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return c, fmt.Errorf("invalid tag id %q", part)
			}
			ids = append(ids, id)
		}
		c.TagIDs = ids
	default:
		return c, fmt.Errorf("unknown filter %q", key)
	}
	return c, nil
}

func render(out io.Writer, snap feed.Snapshot) {
	switch snap.State {
	case feed.StateIdle:
		fmt.Fprintln(out, "(signed out)")
	case feed.StateLoading:
		fmt.Fprintln(out, "(loading...)")
	case feed.StateFailed:
		fmt.Fprintf(out, "(feed failed: %v; press n to retry)\n", snap.Err)
	case feed.StateEmpty:
		fmt.Fprintln(out, "(no more recipes; change filters with f or press n)")
	case feed.StateReady:
		r := snap.Page[0]
		fmt.Fprintf(out, "\n== %s ==  [%s", r.Title, r.Difficulty)
		if r.PrepTimeMinutes != nil {
			fmt.Fprintf(out, ", %d min", *r.PrepTimeMinutes)
		}
		fmt.Fprintf(out, "]  (%d left)\n", len(snap.Page))
		if r.Description != "" {
			fmt.Fprintln(out, r.Description)
		}
		for _, ing := range r.Ingredients {
			fmt.Fprintf(out, "  - %s %s\n", ing.Amount, ing.Name)
		}
	}
}
