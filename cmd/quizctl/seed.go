package main

import (
	"context"
	"fmt"
	"os"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// seedFile is the layout of a question seed file.
type seedFile struct {
	Questions []seedQuestion `yaml:"questions"`
}

type seedQuestion struct {
	QuizType      string   `yaml:"quizType"`
	Question      string   `yaml:"question"`
	Options       []string `yaml:"options"`
	CorrectAnswer string   `yaml:"correctAnswer"`
}

func newSeedCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Insert the questions of a YAML seed file",
		Long: `Insert every question of a YAML seed file in one transaction.

The file is rejected as a whole when any question fails validation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read seed file: %w", err)
			}
			questions, err := parseSeedFile(raw)
			if err != nil {
				return err
			}

			_, db, err := openDB(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := seedQuestions(cmd.Context(),
				repository.NewTransactionManagerAdapter(db),
				repository.NewSQLXQuestionRepository(db),
				questions)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d questions from %s\n", n, args[0])
			return nil
		},
	}
}

// parseSeedFile decodes and validates every question in raw.
func parseSeedFile(raw []byte) ([]*domain.Question, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(file.Questions) == 0 {
		return nil, fmt.Errorf("seed file contains no questions")
	}

	questions := make([]*domain.Question, 0, len(file.Questions))
	for i, sq := range file.Questions {
		category, ok := domain.ParseCategory(sq.QuizType)
		if !ok {
			category = domain.Category(sq.QuizType)
		}
		q := domain.NewQuestion(category, sq.Question, sq.Options, sq.CorrectAnswer)
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func seedQuestions(ctx context.Context, tm domain.TransactionManager, repo domain.QuestionRepository, questions []*domain.Question) (int, error) {
	err := tm.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, q := range questions {
			if err := repo.CreateQuestion(txCtx, q); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Get().Error("Seeding failed, transaction rolled back", zap.Error(err))
		return 0, err
	}
	logger.Get().Info("Seeded questions", zap.Int("count", len(questions)))
	return len(questions), nil
}
