package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quiz-hub/internal/client"
	"quiz-hub/internal/config"
	"quiz-hub/internal/domain"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/quizsession"

	"github.com/spf13/cobra"
)

type playOptions struct {
	APIURL   string
	Token    string
	Email    string
	Password string
	Category string
	Name     string
}

func newPlayCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a timed quiz against the API in the terminal",
		Long: `Play a quiz in the terminal. Each question has a 60 second countdown;
when it runs out you may take another 60 seconds or give up the quiz.

Answer with the option number, "n" for the next question, "b" to review
the previous one and "q" to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.Verbose {
				if err := logger.Initialize(config.LoggerConfig{Level: "debug"}); err != nil {
					return err
				}
			}
			category, ok := domain.ParseCategory(opts.Category)
			if !ok {
				return fmt.Errorf("unknown category %q", opts.Category)
			}

			api := client.New(opts.APIURL, client.WithToken(opts.Token))
			name := opts.Name
			if opts.Token == "" {
				if opts.Email == "" {
					return errors.New("either --token or --email and --password are required")
				}
				resp, err := api.Login(cmd.Context(), opts.Email, opts.Password)
				if err != nil {
					return err
				}
				if name == "" {
					name = resp.User.Username
				}
			}

			return runPlay(cmd.Context(), playSession{
				Category: category,
				UserName: name,
				Source:   api,
				Results:  api,
			}, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.APIURL, "api", "http://localhost:8090", "base URL of the API server")
	cmd.Flags().StringVar(&opts.Token, "token", "", "bearer token")
	cmd.Flags().StringVar(&opts.Email, "email", "", "login email, used when --token is empty")
	cmd.Flags().StringVar(&opts.Password, "password", "", "login password")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", string(domain.CategoryMath), "quiz type")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name on the result")
	return cmd
}

type playSession struct {
	Category  domain.Category
	UserName  string
	Source    quizsession.QuestionSource
	Results   quizsession.ResultSubmitter
	Scheduler quizsession.Scheduler
}

// runPlay drives one session from line-oriented input until it finishes, aborts or input ends.
func runPlay(ctx context.Context, s playSession, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes := make(chan quizsession.Snapshot, 64)
	engine, err := quizsession.NewEngine(quizsession.Config{
		Category:  s.Category,
		UserName:  s.UserName,
		Source:    s.Source,
		Submitter: s.Results,
		Scheduler: s.Scheduler,
		OnChange: func(snap quizsession.Snapshot) {
			select {
			case changes <- snap:
			default:
			}
		},
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintf(out, "Quiz: %s\n", s.Category)
	fmt.Fprintf(out, "Rules: %d seconds per question, one point per correct answer.\n", quizsession.QuestionTimeLimit)
	fmt.Fprintln(out, "Press Enter to start.")
	if _, ok := <-lines; !ok {
		return nil
	}

	if err := engine.Start(ctx); err != nil {
		if domain.CodeOf(err) == domain.CodeNoQuestionsAvailable {
			fmt.Fprintf(out, "No questions available for %s.\n", s.Category)
			return nil
		}
		if client.IsAuthError(err) {
			return fmt.Errorf("not logged in, pass --email and --password: %w", err)
		}
		return err
	}
	printQuestion(out, engine.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case snap := <-changes:
			switch {
			case snap.State == quizsession.StateTimeExpiredPrompt:
				fmt.Fprintln(out, "Time is up! Take another 60 seconds? [y/N]")
			case snap.State == quizsession.StateAnswering && snap.Answer == nil &&
				snap.Remaining > 0 && snap.Remaining < quizsession.QuestionTimeLimit && snap.Remaining%10 == 0:
				fmt.Fprintf(out, "  %d seconds left\n", snap.Remaining)
			}

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			done, err := handleLine(ctx, engine, engine.Snapshot(), line, out)
			if err != nil || done {
				return err
			}
		}
	}
}

// handleLine applies one input line. snap is the state the user was looking at,
// which may be stale if the countdown expired in the meantime.
func handleLine(ctx context.Context, engine *quizsession.Engine, snap quizsession.Snapshot, line string, out io.Writer) (bool, error) {
	if line == "q" {
		fmt.Fprintln(out, "Bye.")
		return true, nil
	}

	if snap.State == quizsession.StateTimeExpiredPrompt {
		extend := strings.EqualFold(line, "y")
		if err := engine.ResolveTimeExpiry(extend); err != nil {
			return false, err
		}
		if !extend {
			fmt.Fprintln(out, "Quiz aborted. No result was recorded.")
			return true, nil
		}
		printQuestion(out, engine.Snapshot())
		return false, nil
	}

	switch line {
	case "n":
		result, err := engine.Advance(ctx)
		if errors.Is(err, quizsession.ErrInvalidState) {
			return showCurrent(engine, out), nil
		}
		if errors.Is(err, quizsession.ErrNotAnswered) {
			fmt.Fprintln(out, "Answer the question first.")
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if result != nil {
			printResult(out, result, engine.Snapshot().Submitted)
			return true, nil
		}
		printQuestion(out, engine.Snapshot())
	case "b":
		err := engine.Retreat()
		if errors.Is(err, quizsession.ErrInvalidState) {
			return showCurrent(engine, out), nil
		}
		if err != nil {
			fmt.Fprintln(out, "This is the first question.")
			return false, nil
		}
		printQuestion(out, engine.Snapshot())
	default:
		choice, err := strconv.Atoi(line)
		if err != nil || snap.Question == nil || choice < 1 || choice > len(snap.Question.Options) {
			fmt.Fprintln(out, `Type an option number, "n", "b" or "q".`)
			return false, nil
		}
		if snap.Answer != nil {
			fmt.Fprintln(out, "Already answered.")
			return false, nil
		}
		err = engine.SelectAnswer(snap.Question.Options[choice-1])
		if errors.Is(err, quizsession.ErrInvalidState) {
			return showCurrent(engine, out), nil
		}
		if err != nil {
			return false, err
		}
		answer := engine.Snapshot().Answer
		if answer.Correct {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Wrong, the answer is %s.\n", snap.Question.Answer)
		}
	}
	return false, nil
}

// showCurrent re-renders the live state after input that arrived too late to apply.
func showCurrent(engine *quizsession.Engine, out io.Writer) bool {
	snap := engine.Snapshot()
	switch snap.State {
	case quizsession.StateTimeExpiredPrompt:
		fmt.Fprintln(out, "Too late. Time is up! Take another 60 seconds? [y/N]")
	case quizsession.StateAnswering:
		printQuestion(out, snap)
	default:
		return true
	}
	return false
}

func printQuestion(out io.Writer, snap quizsession.Snapshot) {
	q := snap.Question
	fmt.Fprintf(out, "\nQuestion %d/%d: %s\n", snap.Index+1, snap.Total, q.Prompt)
	for i, o := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, o)
	}
	if snap.Answer != nil {
		fmt.Fprintf(out, "  (answered: %s)\n", snap.Answer.Choice)
	}
}

func printResult(out io.Writer, r *domain.QuizResult, submitted bool) {
	fmt.Fprintf(out, "\nFinished %s: %d/%d correct, %d wrong, %.2f%% in %ds\n",
		r.Category, r.CorrectAnswers, r.TotalQuestions, r.WrongAnswers, r.PercentageScore(), r.TimeTaken)
	if !submitted {
		fmt.Fprintln(out, "The result could not be saved to the server.")
	}
}
