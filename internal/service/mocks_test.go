package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/port"

	"github.com/stretchr/testify/mock"
)

// --- MockAccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateProfilePicture(ctx context.Context, id, url string, updatedAt time.Time) error {
	args := m.Called(ctx, id, url, updatedAt)
	return args.Error(0)
}

// --- MockNotificationSender ---
type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) SendVerificationCode(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

// --- MockIdentityVerifier ---
type MockIdentityVerifier struct {
	mock.Mock
}

func (m *MockIdentityVerifier) Verify(ctx context.Context, token string) (*port.FederatedIdentity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.FederatedIdentity), args.Error(1)
}

// --- MockCodeExchanger ---
type MockCodeExchanger struct {
	mock.Mock
}

func (m *MockCodeExchanger) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockCodeExchanger) ExchangeCode(ctx context.Context, code string) (*port.FederatedIdentity, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.FederatedIdentity), args.Error(1)
}

// --- MockAttemptLimiter ---
type MockAttemptLimiter struct {
	mock.Mock
}

func (m *MockAttemptLimiter) AllowVerify(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptLimiter) AllowResend(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptLimiter) Reset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) ListQuestions(ctx context.Context) ([]*domain.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListQuestionsByCategory(ctx context.Context, category domain.Category) ([]*domain.Question, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) DeleteQuestion(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- MockResultRepository ---
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) CreateResult(ctx context.Context, result *domain.QuizResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) ListResultsByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.QuizResult, int, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.QuizResult), args.Int(1), args.Error(2)
}

// --- MockContactRepository ---
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) CreateContact(ctx context.Context, contact *domain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) ListContacts(ctx context.Context) ([]*domain.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) DeleteContact(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockImageStore ---
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) UploadProfileImage(ctx context.Context, accountID string, file io.Reader) (string, error) {
	args := m.Called(ctx, accountID, file)
	return args.String(0), args.Error(1)
}

// --- MockQuestionGenerator ---
type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) GenerateQuestions(ctx context.Context, category domain.Category, count int) ([]*domain.Question, error) {
	args := m.Called(ctx, category, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

// memoryAccountStore enforces unique emails and usernames like the database does.
type memoryAccountStore struct {
	mu     sync.Mutex
	byID   map[string]*domain.Account
	nextID int
}

func newMemoryAccountStore() *memoryAccountStore {
	return &memoryAccountStore{byID: make(map[string]*domain.Account)}
}

func (s *memoryAccountStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.Email == account.Email {
			return domain.ErrDuplicateEmail
		}
		if account.Username != "" && strings.EqualFold(a.Username, account.Username) {
			return domain.ErrDuplicateUsername
		}
	}
	s.nextID++
	account.ID = fmt.Sprintf("%026d", s.nextID)
	stored := *account
	s.byID[account.ID] = &stored
	return nil
}

func (s *memoryAccountStore) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memoryAccountStore) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *memoryAccountStore) UpdateAccount(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[account.ID]; !ok {
		return domain.NewNotFoundError("account missing")
	}
	cp := *account
	s.byID[account.ID] = &cp
	return nil
}

func (s *memoryAccountStore) UpdateProfilePicture(ctx context.Context, id, url string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.byID[id]
	if !ok {
		return domain.NewNotFoundError("account missing")
	}
	account.ProfilePictureURL = url
	account.UpdatedAt = updatedAt
	return nil
}

// recordingNotifier remembers the last code sent to each address.
type recordingNotifier struct {
	mu    sync.Mutex
	codes map[string][]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{codes: make(map[string][]string)}
}

func (n *recordingNotifier) SendVerificationCode(ctx context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[email] = append(n.codes[email], code)
	return nil
}

func (n *recordingNotifier) sent(email string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.codes[email]...)
}
