package quizsession

import (
	"context"
	"errors"
	"sync"
	"time"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/logger"

	"go.uber.org/zap"
)

// State is the mode of a quiz session.
type State string

const (
	StateRules             State = "rules"
	StateAnswering         State = "answering"
	StateTimeExpiredPrompt State = "time_expired_prompt"
	StateAborted           State = "aborted"
	StateFinished          State = "finished"
)

// QuestionTimeLimit is the countdown, in seconds, for every unanswered question.
const QuestionTimeLimit = 60

var (
	ErrInvalidState    = errors.New("quizsession: operation not allowed in current state")
	ErrNotAnswered     = errors.New("quizsession: current question has no answer yet")
	ErrAtFirstQuestion = errors.New("quizsession: already at the first question")
	ErrUnknownChoice   = errors.New("quizsession: choice is not one of the options")
	ErrNoSource        = errors.New("quizsession: question source is required")
)

// QuestionSource loads the ordered question list for a category.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, category domain.Category) ([]*domain.Question, error)
}

// ResultSubmitter persists a finished result and returns the stored copy.
type ResultSubmitter interface {
	SubmitResult(ctx context.Context, result *domain.QuizResult) (*domain.QuizResult, error)
}

// Answer is the immutable record of one answered question.
type Answer struct {
	Choice  string
	Correct bool
	Seconds int
}

// Snapshot is a read-only copy of the session handed to observers.
type Snapshot struct {
	State     State
	Category  domain.Category
	Index     int
	Total     int
	Question  *domain.Question
	Answer    *Answer
	Remaining int
	Score     int
	// ReadOnly is set while reviewing an answered question.
	ReadOnly  bool
	Result    *domain.QuizResult
	Submitted bool
}

type Config struct {
	Category  domain.Category
	UserName  string
	Source    QuestionSource
	Submitter ResultSubmitter
	Scheduler Scheduler
	Clock     Clock

	// TickInterval defaults to one second.
	TickInterval time.Duration

	// OnChange is called after every transition, outside the session lock.
	OnChange func(Snapshot)
}

// Engine drives one quiz attempt. All methods are safe for concurrent use.
type Engine struct {
	cfg Config

	mu        sync.Mutex
	state     State
	questions []*domain.Question
	answers   []*Answer
	index     int
	score     int
	remaining int
	startedAt time.Time
	shownAt   time.Time
	result    *domain.QuizResult
	submitted bool

	// generation invalidates ticks delivered after their countdown was cancelled.
	generation uint64
	cancelTick CancelFunc
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Source == nil {
		return nil, ErrNoSource
	}
	if _, ok := domain.ParseCategory(string(cfg.Category)); !ok {
		return nil, domain.NewValidationError("unknown quiz type: " + string(cfg.Category))
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TickerScheduler{}
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &Engine{
		cfg:       cfg,
		state:     StateRules,
		remaining: QuestionTimeLimit,
	}, nil
}

// Start loads the questions and enters Answering on the first one.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateRules {
		e.mu.Unlock()
		return ErrInvalidState
	}
	e.mu.Unlock()

	questions, err := e.cfg.Source.FetchQuestions(ctx, e.cfg.Category)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return domainErr
		}
		return domain.NewTransientError("Failed to load questions", err)
	}
	if len(questions) == 0 {
		return domain.NewNoQuestionsAvailableError(string(e.cfg.Category))
	}

	e.mu.Lock()
	if e.state != StateRules {
		e.mu.Unlock()
		return ErrInvalidState
	}
	now := e.cfg.Clock.Now()
	e.questions = questions
	e.answers = make([]*Answer, len(questions))
	e.index = 0
	e.startedAt = now
	e.state = StateAnswering
	e.showCurrentLocked(now)
	snap := e.snapshotLocked()
	e.mu.Unlock()

	logger.Get().Info("Quiz session started",
		zap.String("quizType", string(e.cfg.Category)),
		zap.Int("questions", len(questions)))
	e.notify(snap)
	return nil
}

// Tick advances the live countdown by one second.
func (e *Engine) Tick() {
	e.mu.Lock()
	e.tickLocked(e.generation)
}

func (e *Engine) tickFrom(gen uint64) {
	e.mu.Lock()
	e.tickLocked(gen)
}

// tickLocked releases e.mu.
func (e *Engine) tickLocked(gen uint64) {
	if gen != e.generation || e.state != StateAnswering || e.answers[e.index] != nil {
		e.mu.Unlock()
		return
	}
	e.remaining--
	if e.remaining <= 0 {
		e.remaining = 0
		e.stopCountdownLocked()
		e.state = StateTimeExpiredPrompt
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
}

// SelectAnswer records choice for the current question. Re-selecting is a no-op.
func (e *Engine) SelectAnswer(choice string) error {
	e.mu.Lock()
	if e.state != StateAnswering {
		e.mu.Unlock()
		return ErrInvalidState
	}
	if e.answers[e.index] != nil {
		e.mu.Unlock()
		return nil
	}
	q := e.questions[e.index]
	if !q.HasOption(choice) {
		e.mu.Unlock()
		return ErrUnknownChoice
	}

	e.stopCountdownLocked()
	answer := &Answer{
		Choice:  choice,
		Correct: q.IsCorrect(choice),
		Seconds: seconds(e.cfg.Clock.Now().Sub(e.shownAt)),
	}
	e.answers[e.index] = answer
	if answer.Correct {
		e.score++
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// Advance moves to the next question, or finishes the session after the last one.
// The returned result is non-nil only when the session finished.
func (e *Engine) Advance(ctx context.Context) (*domain.QuizResult, error) {
	e.mu.Lock()
	if e.state != StateAnswering {
		e.mu.Unlock()
		return nil, ErrInvalidState
	}
	if e.answers[e.index] == nil {
		e.mu.Unlock()
		return nil, ErrNotAnswered
	}

	now := e.cfg.Clock.Now()
	if e.index+1 < len(e.questions) {
		e.index++
		e.showCurrentLocked(now)
		snap := e.snapshotLocked()
		e.mu.Unlock()
		e.notify(snap)
		return nil, nil
	}

	e.stopCountdownLocked()
	local := e.buildResultLocked(now)
	e.result = local
	e.state = StateFinished
	e.mu.Unlock()

	final := e.submit(ctx, local)

	e.mu.Lock()
	e.result = final
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return final, nil
}

// Retreat shows the previous, already answered, question for review.
func (e *Engine) Retreat() error {
	e.mu.Lock()
	if e.state != StateAnswering {
		e.mu.Unlock()
		return ErrInvalidState
	}
	if e.index == 0 {
		e.mu.Unlock()
		return ErrAtFirstQuestion
	}
	e.index--
	e.showCurrentLocked(e.cfg.Clock.Now())
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// ResolveTimeExpiry either grants another full countdown or aborts the session.
func (e *Engine) ResolveTimeExpiry(extend bool) error {
	e.mu.Lock()
	if e.state != StateTimeExpiredPrompt {
		e.mu.Unlock()
		return ErrInvalidState
	}
	if extend {
		e.state = StateAnswering
		e.remaining = QuestionTimeLimit
		e.armCountdownLocked()
	} else {
		e.state = StateAborted
		e.questions = nil
		e.answers = nil
		logger.Get().Info("Quiz session aborted after time expiry",
			zap.String("quizType", string(e.cfg.Category)))
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// Snapshot returns the current view of the session.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Close cancels any live countdown.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopCountdownLocked()
}

// showCurrentLocked resets the countdown for the question at e.index and
// arms it only when that question is still unanswered.
func (e *Engine) showCurrentLocked(now time.Time) {
	e.stopCountdownLocked()
	e.remaining = QuestionTimeLimit
	if e.answers[e.index] == nil {
		e.shownAt = now
		e.armCountdownLocked()
	}
}

func (e *Engine) armCountdownLocked() {
	e.stopCountdownLocked()
	gen := e.generation
	e.cancelTick = e.cfg.Scheduler.Every(e.cfg.TickInterval, func() { e.tickFrom(gen) })
}

func (e *Engine) stopCountdownLocked() {
	e.generation++
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
}

func (e *Engine) buildResultLocked(now time.Time) *domain.QuizResult {
	times := make([]int, len(e.answers))
	correct := 0
	for i, a := range e.answers {
		times[i] = a.Seconds
		if a.Correct {
			correct++
		}
	}
	return &domain.QuizResult{
		UserName:       e.cfg.UserName,
		Category:       e.cfg.Category,
		TotalQuestions: len(e.questions),
		Score:          e.score,
		CorrectAnswers: correct,
		WrongAnswers:   len(e.questions) - correct,
		TimeTaken:      seconds(now.Sub(e.startedAt)),
		QuestionTimes:  times,
		CreatedAt:      now,
	}
}

// submit never fails: a rejected or unreachable store leaves the local result in place.
func (e *Engine) submit(ctx context.Context, local *domain.QuizResult) *domain.QuizResult {
	if e.cfg.Submitter == nil {
		return local
	}
	stored, err := e.cfg.Submitter.SubmitResult(ctx, local)
	if err != nil || stored == nil {
		logger.Get().Warn("Failed to submit quiz result, keeping local copy",
			zap.String("quizType", string(local.Category)),
			zap.Error(err))
		return local
	}

	e.mu.Lock()
	e.submitted = true
	e.mu.Unlock()
	return stored
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:     e.state,
		Category:  e.cfg.Category,
		Index:     e.index,
		Total:     len(e.questions),
		Remaining: e.remaining,
		Score:     e.score,
		Result:    e.result,
		Submitted: e.submitted,
	}
	if e.index < len(e.questions) {
		snap.Question = e.questions[e.index]
		if a := e.answers[e.index]; a != nil {
			copied := *a
			snap.Answer = &copied
			snap.ReadOnly = true
		}
	}
	return snap
}

func (e *Engine) notify(snap Snapshot) {
	if e.cfg.OnChange != nil {
		e.cfg.OnChange(snap)
	}
}

func seconds(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
