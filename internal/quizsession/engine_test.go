package quizsession

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quiz-hub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTask struct {
	fn        func()
	cancelled bool
}

type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func (s *fakeScheduler) Every(d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &fakeTask{fn: fn}
	s.tasks = append(s.tasks, task)
	return func() {
		s.mu.Lock()
		task.cancelled = true
		s.mu.Unlock()
	}
}

// fire runs every live task n times.
func (s *fakeScheduler) fire(n int) {
	for i := 0; i < n; i++ {
		s.mu.Lock()
		var live []*fakeTask
		for _, t := range s.tasks {
			if !t.cancelled {
				live = append(live, t)
			}
		}
		s.mu.Unlock()
		for _, t := range live {
			t.fn()
		}
	}
}

func (s *fakeScheduler) live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (s *fakeScheduler) last() *fakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[len(s.tasks)-1]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type stubSource struct {
	questions []*domain.Question
	err       error
}

func (s *stubSource) FetchQuestions(ctx context.Context, category domain.Category) ([]*domain.Question, error) {
	return s.questions, s.err
}

type recordingSubmitter struct {
	mu        sync.Mutex
	submitted []*domain.QuizResult
	err       error
}

func (r *recordingSubmitter) SubmitResult(ctx context.Context, result *domain.QuizResult) (*domain.QuizResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted = append(r.submitted, result)
	if r.err != nil {
		return nil, r.err
	}
	stored := *result
	stored.ID = "01HGZ8VNRYXS8QKNJV5GRWPWDQ"
	return &stored, nil
}

func mathQuestions() []*domain.Question {
	return []*domain.Question{
		domain.NewQuestion(domain.CategoryMath, "What is 2 + 2?", []string{"3", "4", "5"}, "4"),
		domain.NewQuestion(domain.CategoryMath, "What is 3 * 3?", []string{"6", "9", "12"}, "9"),
		domain.NewQuestion(domain.CategoryMath, "What is 10 / 2?", []string{"2", "5", "8"}, "5"),
	}
}

type harness struct {
	engine    *Engine
	scheduler *fakeScheduler
	clock     *fakeClock
	submitter *recordingSubmitter
	snapshots []Snapshot
}

func newHarness(t *testing.T, source QuestionSource) *harness {
	t.Helper()
	h := &harness{
		scheduler: &fakeScheduler{},
		clock:     newFakeClock(),
		submitter: &recordingSubmitter{},
	}
	engine, err := NewEngine(Config{
		Category:  domain.CategoryMath,
		UserName:  "alice",
		Source:    source,
		Submitter: h.submitter,
		Scheduler: h.scheduler,
		Clock:     h.clock,
		OnChange:  func(s Snapshot) { h.snapshots = append(h.snapshots, s) },
	})
	require.NoError(t, err)
	h.engine = engine
	return h
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(Config{Category: domain.CategoryMath})
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = NewEngine(Config{Category: "history", Source: &stubSource{}})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestEngine_FullSessionScoresAndSubmits(t *testing.T) {
	h := newHarness(t, &stubSource{questions: mathQuestions()})
	ctx := context.Background()

	assert.Equal(t, StateRules, h.engine.Snapshot().State)
	require.NoError(t, h.engine.Start(ctx))

	snap := h.engine.Snapshot()
	assert.Equal(t, StateAnswering, snap.State)
	assert.Equal(t, QuestionTimeLimit, snap.Remaining)
	assert.Equal(t, 1, h.scheduler.live())

	h.clock.Advance(4 * time.Second)
	require.NoError(t, h.engine.SelectAnswer("4"))
	assert.Equal(t, 0, h.scheduler.live())
	res, err := h.engine.Advance(ctx)
	require.NoError(t, err)
	assert.Nil(t, res)

	h.clock.Advance(7 * time.Second)
	require.NoError(t, h.engine.SelectAnswer("6"))
	_, err = h.engine.Advance(ctx)
	require.NoError(t, err)

	h.clock.Advance(2 * time.Second)
	require.NoError(t, h.engine.SelectAnswer("5"))
	res, err = h.engine.Advance(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 3, res.TotalQuestions)
	assert.Equal(t, 2, res.CorrectAnswers)
	assert.Equal(t, 1, res.WrongAnswers)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 66.67, res.PercentageScore())
	assert.Equal(t, []int{4, 7, 2}, res.QuestionTimes)
	assert.Equal(t, 13, res.TimeTaken)
	assert.Equal(t, "alice", res.UserName)
	assert.NoError(t, res.Validate())

	final := h.engine.Snapshot()
	assert.Equal(t, StateFinished, final.State)
	assert.True(t, final.Submitted)
	assert.Equal(t, "01HGZ8VNRYXS8QKNJV5GRWPWDQ", final.Result.ID)
	assert.Len(t, h.submitter.submitted, 1)
	assert.Equal(t, 0, h.scheduler.live())

	_, err = h.engine.Advance(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEngine_StartFailures(t *testing.T) {
	t.Run("empty category", func(t *testing.T) {
		h := newHarness(t, &stubSource{})
		err := h.engine.Start(context.Background())
		assert.Equal(t, domain.CodeNoQuestionsAvailable, domain.CodeOf(err))
		assert.Equal(t, StateRules, h.engine.Snapshot().State)
		assert.Equal(t, 0, h.scheduler.live())
	})

	t.Run("transport failure", func(t *testing.T) {
		h := newHarness(t, &stubSource{err: errors.New("connection refused")})
		err := h.engine.Start(context.Background())
		assert.Equal(t, domain.CodeTransientFailure, domain.CodeOf(err))
		assert.Equal(t, StateRules, h.engine.Snapshot().State)
	})

	t.Run("domain error passes through", func(t *testing.T) {
		h := newHarness(t, &stubSource{err: domain.NewTokenExpiredError()})
		err := h.engine.Start(context.Background())
		assert.Equal(t, domain.CodeTokenExpired, domain.CodeOf(err))
	})

	t.Run("twice", func(t *testing.T) {
		h := newHarness(t, &stubSource{questions: mathQuestions()})
		require.NoError(t, h.engine.Start(context.Background()))
		assert.ErrorIs(t, h.engine.Start(context.Background()), ErrInvalidState)
	})
}

func TestEngine_CountdownExpiryAndAbort(t *testing.T) {
	h := newHarness(t, &stubSource{questions: mathQuestions()})
	require.NoError(t, h.engine.Start(context.Background()))

	h.scheduler.fire(59)
	snap := h.engine.Snapshot()
	assert.Equal(t, StateAnswering, snap.State)
	assert.Equal(t, 1, snap.Remaining)

	h.scheduler.fire(1)
	snap = h.engine.Snapshot()
	assert.Equal(t, StateTimeExpiredPrompt, snap.State)
	assert.Equal(t, 0, snap.Remaining)
	assert.Equal(t, 0, h.scheduler.live())

	assert.ErrorIs(t, h.engine.SelectAnswer("4"), ErrInvalidState)

	require.NoError(t, h.engine.ResolveTimeExpiry(false))
	assert.Equal(t, StateAborted, h.engine.Snapshot().State)
	assert.Nil(t, h.engine.Snapshot().Result)
	assert.Empty(t, h.submitter.submitted)

	assert.ErrorIs(t, h.engine.ResolveTimeExpiry(true), ErrInvalidState)
	h.engine.Tick()
	assert.Equal(t, StateAborted, h.engine.Snapshot().State)
}

func TestEngine_TimeExtension(t *testing.T) {
	h := newHarness(t, &stubSource{questions: mathQuestions()})
	require.NoError(t, h.engine.Start(context.Background()))

	h.scheduler.fire(QuestionTimeLimit)
	require.Equal(t, StateTimeExpiredPrompt, h.engine.Snapshot().State)

	require.NoError(t, h.engine.ResolveTimeExpiry(true))
	snap := h.engine.Snapshot()
	assert.Equal(t, StateAnswering, snap.State)
	assert.Equal(t, QuestionTimeLimit, snap.Remaining)
	assert.Equal(t, 1, h.scheduler.live())

	h.scheduler.fire(10)
	assert.Equal(t, QuestionTimeLimit-10, h.engine.Snapshot().Remaining)
	require.NoError(t, h.engine.SelectAnswer("4"))
	assert.Equal(t, 1, h.engine.Snapshot().Score)
}

func TestEngine_AnsweredQuestionIsImmutable(t *testing.T) {
	h := newHarness(t, &stubSource{questions: mathQuestions()})
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))

	h.clock.Advance(3 * time.Second)
	require.NoError(t, h.engine.SelectAnswer("3"))
	h.clock.Advance(3 * time.Second)
	require.NoError(t, h.engine.SelectAnswer("4"))

	snap := h.engine.Snapshot()
	assert.Equal(t, "3", snap.Answer.Choice)
	assert.False(t, snap.Answer.Correct)
	assert.Equal(t, 3, snap.Answer.Seconds)
	assert.Equal(t, 0, snap.Score)

	require.NoError(t, h.engine.SelectAnswer("7"))
	assert.Equal(t, "3", h.engine.Snapshot().Answer.Choice)

	_, err := h.engine.Advance(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, h.engine.SelectAnswer("7"), ErrUnknownChoice)
	assert.Nil(t, h.engine.Snapshot().Answer)
}

func TestEngine_RetreatIsReadOnly(t *testing.T) {
	h := newHarness(t, &stubSource{questions: mathQuestions()})
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))

	assert.ErrorIs(t, h.engine.Retreat(), ErrAtFirstQuestion)
	_, err := h.engine.Advance(ctx)
	assert.ErrorIs(t, err, ErrNotAnswered)

	h.clock.Advance(5 * time.Second)
	require.NoError(t, h.engine.SelectAnswer("4"))
	_, err = h.engine.Advance(ctx)
	require.NoError(t, err)
	h.scheduler.fire(20)
	assert.Equal(t, 40, h.engine.Snapshot().Remaining)

	require.NoError(t, h.engine.Retreat())
	snap := h.engine.Snapshot()
	assert.Equal(t, 0, snap.Index)
	assert.True(t, snap.ReadOnly)
	assert.Equal(t, QuestionTimeLimit, snap.Remaining)
	assert.Equal(t, 0, h.scheduler.live())

	h.scheduler.fire(30)
	h.engine.Tick()
	assert.Equal(t, QuestionTimeLimit, h.engine.Snapshot().Remaining)

	require.NoError(t, h.engine.SelectAnswer("5"))
	snap = h.engine.Snapshot()
	assert.Equal(t, "4", snap.Answer.Choice)
	assert.Equal(t, 5, snap.Answer.Seconds)
	assert.Equal(t, 1, snap.Score)

	_, err = h.engine.Advance(ctx)
	require.NoError(t, err)
	snap = h.engine.Snapshot()
	assert.Equal(t, 1, snap.Index)
	assert.False(t, snap.ReadOnly)
	assert.Equal(t, QuestionTimeLimit, snap.Remaining)
	assert.Equal(t, 1, h.scheduler.live())
}

func TestEngine_StaleTickIgnored(t *testing.T) {
	h := newHarness(t, &stubSource{questions: mathQuestions()})
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))

	first := h.scheduler.last()
	require.NoError(t, h.engine.SelectAnswer("4"))
	_, err := h.engine.Advance(ctx)
	require.NoError(t, err)

	// A tick already in flight when the first countdown was cancelled.
	first.fn()
	assert.Equal(t, QuestionTimeLimit, h.engine.Snapshot().Remaining)
	assert.LessOrEqual(t, h.scheduler.live(), 1)
}

func TestEngine_SubmissionFailureKeepsLocalResult(t *testing.T) {
	h := newHarness(t, &stubSource{questions: mathQuestions()[:1]})
	h.submitter.err = domain.NewTransientError("store down", nil)
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))

	h.clock.Advance(8 * time.Second)
	require.NoError(t, h.engine.SelectAnswer("4"))
	res, err := h.engine.Advance(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Empty(t, res.ID)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, float64(100), res.PercentageScore())
	snap := h.engine.Snapshot()
	assert.Equal(t, StateFinished, snap.State)
	assert.False(t, snap.Submitted)
	assert.Len(t, h.submitter.submitted, 1)
}

func TestEngine_OnChangeObservesTransitions(t *testing.T) {
	h := newHarness(t, &stubSource{questions: mathQuestions()[:1]})
	ctx := context.Background()
	require.NoError(t, h.engine.Start(ctx))
	h.scheduler.fire(2)
	require.NoError(t, h.engine.SelectAnswer("4"))
	_, err := h.engine.Advance(ctx)
	require.NoError(t, err)

	var states []State
	for _, s := range h.snapshots {
		states = append(states, s.State)
	}
	assert.Equal(t, []State{StateAnswering, StateAnswering, StateAnswering, StateAnswering, StateFinished}, states)
}

func TestTickerScheduler_Cancel(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	cancel := TickerScheduler{}.Every(5*time.Millisecond, func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	}, time.Second, time.Millisecond)

	cancel()
	cancel()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	after := calls
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, after, calls)
}
