package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/questions/internal/database"
	"github.com/deppfellow/questions/internal/lib/utils"
	"github.com/deppfellow/questions/internal/model"
	"github.com/deppfellow/questions/internal/server"
	"github.com/deppfellow/questions/internal/service"
	"github.com/spf13/cobra"
)

const statusTimeout = 5 * time.Second

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.loggerService.Shutdown()

			return database.Migrate(cmd.Context(), &a.logger, a.cfg.Database.DSN())
		},
	}
}

type check struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

type statusReport struct {
	Status        string           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Environment   string           `json:"environment"`
	SchemaVersion int32            `json:"schema_version"`
	LatestVersion int32            `json:"latest_version"`
	Checks        map[string]check `json:"checks"`
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check database connectivity and schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withForum(cmd, func(ctx context.Context, srv *server.Server, _ *service.Services) error {
				logger := srv.Logger.With().Str("operation", "status").Logger()

				report := statusReport{
					Status:      "healthy",
					Timestamp:   time.Now().UTC(),
					Environment: srv.Config.Primary.Env,
					Checks:      map[string]check{},
				}

				pingCtx, cancel := context.WithTimeout(ctx, statusTimeout)
				defer cancel()

				elapsed, err := srv.DB.Ping(pingCtx)
				if err != nil {
					report.Status = "unhealthy"
					report.Checks["database"] = check{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
					logger.Error().Err(err).Dur("response_time", elapsed).Msg("database ping failed")
				} else {
					report.Checks["database"] = check{Status: "healthy", ResponseTime: elapsed.String()}
				}

				current, latest, err := database.SchemaVersion(ctx, srv.Config.Database.DSN())
				switch {
				case err != nil:
					report.Status = "unhealthy"
					report.Checks["schema"] = check{Status: "unhealthy", Error: err.Error()}
					logger.Error().Err(err).Msg("schema version check failed")
				case current < latest:
					report.Status = "unhealthy"
					report.Checks["schema"] = check{Status: "pending migrations"}
				default:
					report.Checks["schema"] = check{Status: "healthy"}
				}
				report.SchemaVersion, report.LatestVersion = current, latest

				if err := utils.PrintJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
				if report.Status != "healthy" {
					return fmt.Errorf("status: %s", report.Status)
				}
				return nil
			})
		},
	}
}

type rankedQuestion struct {
	model.Question
	Count int64 `json:"count"`
}

// ranking picks the aggregate behind `top --by`.
type ranking struct {
	top   func(context.Context, int) ([]model.Question, error)
	count func(context.Context, *model.Question) (int64, error)
}

func rankingBy(forum *service.ForumService, by string) (ranking, error) {
	switch by {
	case "follows":
		return ranking{top: forum.MostFollowed, count: forum.NumFollowers}, nil
	case "likes":
		return ranking{top: forum.MostLiked, count: forum.NumLikes}, nil
	}
	return ranking{}, fmt.Errorf("invalid --by %q: must be follows or likes", by)
}

func newTopCommand() *cobra.Command {
	var (
		by    string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the most followed or most liked questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withForum(cmd, func(ctx context.Context, _ *server.Server, services *service.Services) error {
				r, err := rankingBy(services.Forum, by)
				if err != nil {
					return err
				}

				questions, err := r.top(ctx, limit)
				if err != nil {
					return err
				}

				out := make([]rankedQuestion, 0, len(questions))
				for i := range questions {
					n, err := r.count(ctx, &questions[i])
					if err != nil {
						return err
					}
					out = append(out, rankedQuestion{Question: questions[i], Count: n})
				}
				return utils.PrintJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	cmd.Flags().StringVar(&by, "by", "likes", "ranking criterion: follows or likes")
	cmd.Flags().IntVar(&limit, "limit", 10, "number of questions to list")
	return cmd
}

type karmaReport struct {
	User      model.User `json:"user"`
	Likes     int64      `json:"likes"`
	Questions int64      `json:"questions"`
	Average   *float64   `json:"average"`
}

func newKarmaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "karma USER_ID",
		Short: "Show a user's average likes per authored question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withForum(cmd, func(ctx context.Context, _ *server.Server, services *service.Services) error {
				user, err := services.Forum.User(ctx, userID)
				if err != nil {
					return err
				}

				k, err := services.Forum.Karma(ctx, user)
				if err != nil {
					return err
				}

				report := karmaReport{User: *user, Likes: k.Likes, Questions: k.Questions}
				if avg, ok := k.Average(); ok {
					report.Average = &avg
				}
				return utils.PrintJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}

type threadEntry struct {
	Depth int `json:"depth"`
	model.Reply
}

func newThreadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "thread QUESTION_ID",
		Short: "Print a question and its replies in tree order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			questionID, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withForum(cmd, func(ctx context.Context, _ *server.Server, services *service.Services) error {
				q, err := services.Forum.Question(ctx, questionID)
				if err != nil {
					return err
				}

				th, err := services.Forum.ThreadOf(ctx, q)
				if err != nil {
					return err
				}

				return utils.PrintJSON(cmd.OutOrStdout(), struct {
					Question model.Question `json:"question"`
					Replies  []threadEntry  `json:"replies"`
				}{*q, flattenThread(th)})
			})
		},
	}
}

func flattenThread(th *model.Thread) []threadEntry {
	entries := make([]threadEntry, 0, th.Len())
	th.Walk(func(r model.Reply, depth int) bool {
		entries = append(entries, threadEntry{Depth: depth, Reply: r})
		return true
	})
	return entries
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
