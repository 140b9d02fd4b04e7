package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bloomapp/bloom-core/internal/api"
	"github.com/bloomapp/bloom-core/internal/app"
	"github.com/bloomapp/bloom-core/internal/models"
	"github.com/bloomapp/bloom-core/internal/repositories"
	"github.com/bloomapp/bloom-core/pkg/config"
	"github.com/bloomapp/bloom-core/pkg/text"
	"github.com/bloomapp/bloom-core/validators"
)

const usage = `usage: bloom <command> [flags]

commands:
  status      show greeting, streaks, stats and today's entry
  bloom       share a habit win        (-caption, -photo)
  prune       share a habit drop       (-habit, -why, -strategy, -severity)
  mood        record today's mood      (-mood great|good|okay|struggling)
  gratitude   record today's gratitude (-text)
  feed        page through the feed    (-pages)
  name        set your display name    (-name)
  follow      follow a user            (-user)
  unfollow    unfollow a user          (-user)
`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	st, err := config.InitStorage(cfg)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	sessionCfg := app.Config{
		Storage:   st,
		Validator: validators.NewValidator(),
		Logger:    logger,
	}
	if cfg.APIBaseURL != "" {
		client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger)
		sessionCfg.FeedRepo = repositories.NewRemoteFeedRepository(client)
		sessionCfg.UserRepo = repositories.NewRemoteUserRepository(client)
	}

	ctx := context.Background()
	session := app.New(sessionCfg)
	if err := session.Load(ctx); err != nil {
		logger.Error("failed to load session", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := session.Close(ctx); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	if err := run(ctx, session, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, session *app.Session, command string, args []string) error {
	switch command {
	case "status":
		return runStatus(session)
	case "bloom":
		fs := flag.NewFlagSet("bloom", flag.ExitOnError)
		caption := fs.String("caption", "", "what went well")
		photo := fs.String("photo", "", "optional photo URL")
		fs.Parse(args)
		post, err := session.AddBloomPost(ctx, *caption, *photo)
		if err != nil {
			return err
		}
		fmt.Printf("%s shared: %s\n", text.TypeIcon(post.Type), post.Caption)
		return nil
	case "prune":
		fs := flag.NewFlagSet("prune", flag.ExitOnError)
		habit := fs.String("habit", "", "habit being dropped")
		why := fs.String("why", "", "why it matters")
		strategy := fs.String("strategy", "", "optional replacement strategy")
		severity := fs.String("severity", "Medium", "Low, Medium or High")
		fs.Parse(args)
		post, err := session.AddPrunePost(ctx, *habit, *why, *strategy, models.Severity(*severity))
		if err != nil {
			return err
		}
		fmt.Printf("%s pruned: %s (+%d compost)\n", text.TypeIcon(post.Type), post.HabitName, post.Severity.CompostValue())
		return nil
	case "mood":
		fs := flag.NewFlagSet("mood", flag.ExitOnError)
		mood := fs.String("mood", "", "great, good, okay or struggling")
		fs.Parse(args)
		if err := session.UpdateTodayMood(ctx, models.Mood(*mood)); err != nil {
			return err
		}
		fmt.Printf("mood recorded %s\n", text.MoodEmoji(models.Mood(*mood)))
		return nil
	case "gratitude":
		fs := flag.NewFlagSet("gratitude", flag.ExitOnError)
		gratitude := fs.String("text", "", "what you are grateful for")
		fs.Parse(args)
		if err := session.UpdateTodayGratitude(ctx, *gratitude); err != nil {
			return err
		}
		fmt.Println("gratitude recorded")
		return nil
	case "feed":
		fs := flag.NewFlagSet("feed", flag.ExitOnError)
		pages := fs.Int("pages", 1, "number of pages to fetch")
		fs.Parse(args)
		return runFeed(ctx, session, *pages)
	case "name":
		fs := flag.NewFlagSet("name", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		fs.Parse(args)
		if err := session.SetUserName(ctx, *name); err != nil {
			return err
		}
		fmt.Printf("hello, %s\n", session.UserName())
		return nil
	case "follow":
		fs := flag.NewFlagSet("follow", flag.ExitOnError)
		user := fs.String("user", "", "user id to follow")
		fs.Parse(args)
		return session.FollowUser(ctx, *user)
	case "unfollow":
		fs := flag.NewFlagSet("unfollow", flag.ExitOnError)
		user := fs.String("user", "", "user id to unfollow")
		fs.Parse(args)
		return session.UnfollowUser(ctx, *user)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runStatus(session *app.Session) error {
	fmt.Printf("%s, %s!\n", session.Greeting(), session.UserName())
	fmt.Printf("current streak: %d day(s)  best: %d day(s)\n", session.CurrentStreak(), session.BestStreak())
	stats := session.Stats()
	fmt.Printf("blooms: %d  weeds: %d  compost: %d\n", stats.Blooms, stats.Weeds, session.CompostPoints())
	if entry, ok := session.TodayEntry(); ok {
		if entry.Mood != "" {
			fmt.Printf("today's mood: %s %s\n", entry.Mood, text.MoodEmoji(entry.Mood))
		}
		if entry.Gratitude != "" {
			fmt.Printf("gratitude: %s\n", text.Truncate(entry.Gratitude, 0))
		}
	} else {
		fmt.Println("no entry yet today")
	}
	return nil
}

func runFeed(ctx context.Context, session *app.Session, pages int) error {
	for i := 0; i < pages && session.FeedHasMore(); i++ {
		if err := session.FetchFeedPage(ctx); err != nil {
			return err
		}
	}
	posts := session.FeedPosts()
	if len(posts) == 0 {
		fmt.Println("the garden is quiet. Share a bloom or a prune!")
		return nil
	}
	for _, p := range posts {
		fmt.Printf("%s [%s] %s: %s\n", text.TypeIcon(p.Type), text.TypeBadge(p.Type), p.UserName, text.Truncate(p.Content, 0))
	}
	if session.FeedHasMore() {
		fmt.Println("(more available, rerun with a higher -pages)")
	}
	return nil
}
