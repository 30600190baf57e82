package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"quiz-hub/internal/adapter"
	"quiz-hub/internal/adapter/quizgen"
	"quiz-hub/internal/cache"
	"quiz-hub/internal/domain"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/repository"
	"quiz-hub/internal/service"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type generateOptions struct {
	Categories  []string
	Count       int
	Parallelism int
}

func newGenerateCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Draft questions with the LLM and store those that validate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := parseCategories(opts.Categories)
			if err != nil {
				return err
			}

			cfg, db, err := openDB(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			var questionCache domain.Cache
			if redisClient, err := cache.NewRedisClient(cmd.Context(), cfg.Redis); err != nil {
				logger.Get().Warn("Redis unavailable, question lists will not be invalidated", zap.Error(err))
			} else {
				defer redisClient.Close()
				questionCache = adapter.NewRedisCacheAdapter(redisClient)
			}

			llm, err := ollama.New(
				ollama.WithServerURL(cfg.LLM.ServerURL),
				ollama.WithModel(cfg.LLM.Model),
				ollama.WithHTTPClient(&http.Client{Timeout: 2 * time.Minute}),
			)
			if err != nil {
				return fmt.Errorf("failed to create LLM client: %w", err)
			}

			svc := service.NewQuestionService(
				repository.NewSQLXQuestionRepository(db),
				questionCache,
				quizgen.NewLLMQuestionGenerator(llm),
				cfg.Cache.QuestionListTTL,
			)

			var mu sync.Mutex
			stored := make(map[domain.Category]int, len(categories))

			g, gctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(opts.Parallelism, 1))
			for _, category := range categories {
				g.Go(func() error {
					questions, err := svc.GenerateQuestions(gctx, category, opts.Count)
					if err != nil {
						return fmt.Errorf("%s: %w", category, err)
					}
					mu.Lock()
					stored[category] = len(questions)
					mu.Unlock()
					return nil
				})
			}
			err = g.Wait()

			for _, category := range categories {
				if n, ok := stored[category]; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%-10s stored %d of %d\n", category, n, opts.Count)
				}
			}
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Categories, "category", "c", nil, "categories to generate for (default all)")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 5, "questions to draft per category")
	cmd.Flags().IntVar(&opts.Parallelism, "parallel", 2, "categories generated concurrently")
	return cmd
}

func parseCategories(names []string) ([]domain.Category, error) {
	if len(names) == 0 {
		return domain.Categories, nil
	}
	categories := make([]domain.Category, 0, len(names))
	for _, name := range names {
		c, ok := domain.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		categories = append(categories, c)
	}
	return categories, nil
}
