package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/config"
	"quiz-session-service/internal/domain"
	"quiz-session-service/internal/infra/memory"
	pgloader "quiz-session-service/internal/infra/postgres"
	redisinfra "quiz-session-service/internal/infra/redis"
	transport "quiz-session-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	token := os.Getenv("QUIZ_API_KEY")
	if token == "" {
		token = cfg.Auth.Token
	}
	if token == "" {
		return fmt.Errorf("auth token not configured (set auth.token or QUIZ_API_KEY)")
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if pool != nil {
		loader = pgloader.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	sessionTTL := config.TTLDuration(cfg.Session.TTL, time.Hour)
	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		store = memory.NewSessionStore()
	}

	service := app.NewSessionService(store, quizRepo)
	router := transport.NewRouter(service, token)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz session service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes provides the built-in catalog used when Postgres is not configured.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"us_history_1": {
			ID: "us_history_1",
			Questions: []domain.Question{
				{
					ID:          "q1",
					Prompt:      "In what year was the U.S. Declaration of Independence adopted?",
					Options:     []string{"1774", "1776", "1781", "1789"},
					Correct:     []int{1},
					Explanation: "The Declaration of Independence was adopted on July 4, 1776.",
					MultiSelect: false,
				},
				{
					ID:          "q2",
					Prompt:      "Which document begins with 'We the People'?",
					Options:     []string{"The U.S. Constitution", "The Bill of Rights", "The Articles of Confederation", "The Federalist Papers"},
					Correct:     []int{0},
					Explanation: "The preamble to the U.S. Constitution begins with 'We the People'.",
					MultiSelect: false,
				},
				{
					ID:          "q3",
					Prompt:      "Select all that were among the original 13 colonies.",
					Options:     []string{"Georgia", "Vermont", "Pennsylvania", "Alaska"},
					Correct:     []int{0, 2},
					Explanation: "Georgia and Pennsylvania were original colonies; Vermont and Alaska were not.",
					MultiSelect: true,
				},
			},
		},
	}
}
