package handler_test

import (
	"context"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"
	"quiz-hub/internal/service"
)

// --- Manual Mocks ---

type MockAuthService struct {
	RequestSignupFunc              func(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	VerifyCodeFunc                 func(ctx context.Context, email, code string) error
	ResendCodeFunc                 func(ctx context.Context, email string) error
	LoginFunc                      func(ctx context.Context, email, password string) (*dto.LoginResponse, error)
	LoginWithFederatedIdentityFunc func(ctx context.Context, providerToken string) (*dto.LoginResponse, error)
	GoogleLoginURLFunc             func(state string) (string, error)
	CompleteGoogleLoginFunc        func(ctx context.Context, code string) (*dto.LoginResponse, error)
	AuthenticateRequestFunc        func(ctx context.Context, bearerToken string) (string, error)
}

func (m *MockAuthService) RequestSignup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	if m.RequestSignupFunc != nil {
		return m.RequestSignupFunc(ctx, req)
	}
	panic("MockAuthService.RequestSignupFunc not implemented")
}
func (m *MockAuthService) VerifyCode(ctx context.Context, email, code string) error {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(ctx, email, code)
	}
	panic("MockAuthService.VerifyCodeFunc not implemented")
}
func (m *MockAuthService) ResendCode(ctx context.Context, email string) error {
	if m.ResendCodeFunc != nil {
		return m.ResendCodeFunc(ctx, email)
	}
	panic("MockAuthService.ResendCodeFunc not implemented")
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}
func (m *MockAuthService) LoginWithFederatedIdentity(ctx context.Context, providerToken string) (*dto.LoginResponse, error) {
	if m.LoginWithFederatedIdentityFunc != nil {
		return m.LoginWithFederatedIdentityFunc(ctx, providerToken)
	}
	panic("MockAuthService.LoginWithFederatedIdentityFunc not implemented")
}
func (m *MockAuthService) GoogleLoginURL(state string) (string, error) {
	if m.GoogleLoginURLFunc != nil {
		return m.GoogleLoginURLFunc(state)
	}
	panic("MockAuthService.GoogleLoginURLFunc not implemented")
}
func (m *MockAuthService) CompleteGoogleLogin(ctx context.Context, code string) (*dto.LoginResponse, error) {
	if m.CompleteGoogleLoginFunc != nil {
		return m.CompleteGoogleLoginFunc(ctx, code)
	}
	panic("MockAuthService.CompleteGoogleLoginFunc not implemented")
}
func (m *MockAuthService) AuthenticateRequest(ctx context.Context, bearerToken string) (string, error) {
	if m.AuthenticateRequestFunc != nil {
		return m.AuthenticateRequestFunc(ctx, bearerToken)
	}
	panic("MockAuthService.AuthenticateRequestFunc not implemented")
}

type MockUserService struct {
	GetProfileFunc           func(ctx context.Context, accountID string) (*dto.UserResponse, error)
	UploadProfilePictureFunc func(ctx context.Context, accountID string, upload service.ProfileUpload) (*dto.ProfilePictureResponse, error)
}

func (m *MockUserService) GetProfile(ctx context.Context, accountID string) (*dto.UserResponse, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, accountID)
	}
	panic("MockUserService.GetProfileFunc not implemented")
}
func (m *MockUserService) UploadProfilePicture(ctx context.Context, accountID string, upload service.ProfileUpload) (*dto.ProfilePictureResponse, error) {
	if m.UploadProfilePictureFunc != nil {
		return m.UploadProfilePictureFunc(ctx, accountID, upload)
	}
	panic("MockUserService.UploadProfilePictureFunc not implemented")
}

type MockQuestionService struct {
	ListQuestionsFunc     func(ctx context.Context) ([]dto.QuestionResponse, error)
	ListByCategoryFunc    func(ctx context.Context, quizType string) ([]dto.QuestionResponse, error)
	AddQuestionFunc       func(ctx context.Context, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestionFunc    func(ctx context.Context, id string) error
	GenerateQuestionsFunc func(ctx context.Context, category domain.Category, count int) ([]dto.QuestionResponse, error)
}

func (m *MockQuestionService) ListQuestions(ctx context.Context) ([]dto.QuestionResponse, error) {
	if m.ListQuestionsFunc != nil {
		return m.ListQuestionsFunc(ctx)
	}
	panic("MockQuestionService.ListQuestionsFunc not implemented")
}
func (m *MockQuestionService) ListByCategory(ctx context.Context, quizType string) ([]dto.QuestionResponse, error) {
	if m.ListByCategoryFunc != nil {
		return m.ListByCategoryFunc(ctx, quizType)
	}
	panic("MockQuestionService.ListByCategoryFunc not implemented")
}
func (m *MockQuestionService) AddQuestion(ctx context.Context, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if m.AddQuestionFunc != nil {
		return m.AddQuestionFunc(ctx, req)
	}
	panic("MockQuestionService.AddQuestionFunc not implemented")
}
func (m *MockQuestionService) DeleteQuestion(ctx context.Context, id string) error {
	if m.DeleteQuestionFunc != nil {
		return m.DeleteQuestionFunc(ctx, id)
	}
	panic("MockQuestionService.DeleteQuestionFunc not implemented")
}
func (m *MockQuestionService) GenerateQuestions(ctx context.Context, category domain.Category, count int) ([]dto.QuestionResponse, error) {
	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, category, count)
	}
	panic("MockQuestionService.GenerateQuestionsFunc not implemented")
}

type MockResultService struct {
	SaveResultFunc  func(ctx context.Context, accountID string, req dto.SaveResultRequest) (*dto.QuizResultResponse, error)
	ListResultsFunc func(ctx context.Context, accountID string, page dto.Pagination) (*dto.QuizResultsResponse, error)
}

func (m *MockResultService) SaveResult(ctx context.Context, accountID string, req dto.SaveResultRequest) (*dto.QuizResultResponse, error) {
	if m.SaveResultFunc != nil {
		return m.SaveResultFunc(ctx, accountID, req)
	}
	panic("MockResultService.SaveResultFunc not implemented")
}
func (m *MockResultService) ListResults(ctx context.Context, accountID string, page dto.Pagination) (*dto.QuizResultsResponse, error) {
	if m.ListResultsFunc != nil {
		return m.ListResultsFunc(ctx, accountID, page)
	}
	panic("MockResultService.ListResultsFunc not implemented")
}

type MockContactService struct {
	SubmitFunc func(ctx context.Context, req dto.ContactRequest) (*dto.ContactResponse, error)
	ListFunc   func(ctx context.Context) ([]dto.ContactResponse, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockContactService) Submit(ctx context.Context, req dto.ContactRequest) (*dto.ContactResponse, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	panic("MockContactService.SubmitFunc not implemented")
}
func (m *MockContactService) List(ctx context.Context) ([]dto.ContactResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	panic("MockContactService.ListFunc not implemented")
}
func (m *MockContactService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	panic("MockContactService.DeleteFunc not implemented")
}
