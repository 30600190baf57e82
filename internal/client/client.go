// Package client talks to the quiz-hub REST API on behalf of a quiz player.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, typically after Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges credentials for a bearer token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// FetchQuestions returns the questions of category; an empty category yields an empty list.
func (c *Client) FetchQuestions(ctx context.Context, category domain.Category) ([]*domain.Question, error) {
	var payload []dto.QuestionResponse
	err := c.do(ctx, http.MethodGet, "/api/questions/"+url.PathEscape(string(category)), nil, &payload)
	if err != nil {
		if domain.CodeOf(err) == domain.CodeNoQuestionsAvailable {
			return []*domain.Question{}, nil
		}
		return nil, err
	}

	questions := make([]*domain.Question, 0, len(payload))
	for _, q := range payload {
		questions = append(questions, &domain.Question{
			ID:       q.ID,
			Category: domain.Category(q.QuizType),
			Prompt:   q.Question,
			Options:  q.Options,
			Answer:   q.CorrectAnswer,
		})
	}
	return questions, nil
}

// SubmitResult stores a finished result for the authenticated account.
func (c *Client) SubmitResult(ctx context.Context, result *domain.QuizResult) (*domain.QuizResult, error) {
	req := dto.SaveResultRequest{
		QuizType:       string(result.Category),
		TotalQuestions: result.TotalQuestions,
		Score:          result.Score,
		CorrectAnswers: result.CorrectAnswers,
		WrongAnswers:   result.WrongAnswers,
		TimeTaken:      result.TimeTaken,
		QuestionTimes:  result.QuestionTimes,
		UserName:       result.UserName,
	}

	var resp struct {
		Message string                 `json:"message"`
		Result  dto.QuizResultResponse `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/questions/save-result", req, &resp); err != nil {
		return nil, err
	}

	stored := resp.Result
	return &domain.QuizResult{
		ID:             stored.ID,
		UserName:       stored.UserName,
		Category:       domain.Category(stored.QuizType),
		TotalQuestions: stored.TotalQuestions,
		Score:          stored.Score,
		CorrectAnswers: stored.CorrectAnswers,
		WrongAnswers:   stored.WrongAnswers,
		TimeTaken:      stored.TimeTaken,
		QuestionTimes:  stored.QuestionTimes,
		CreatedAt:      stored.CreatedAt,
	}, nil
}

// apiError mirrors the error body rendered by the server's ErrorHandler.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return domain.NewInternalError("Failed to encode request", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.NewInternalError("Failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewTransientError("Quiz service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewTransientError("Malformed response from quiz service", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var apiErr apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Code == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		apiErr.Code = string(codeForStatus(resp.StatusCode))
	}

	cause := fmt.Errorf("%s: status %d", resp.Request.URL.Path, resp.StatusCode)
	if resp.StatusCode >= http.StatusInternalServerError {
		return domain.NewTransientError(apiErr.Message, cause)
	}
	return domain.NewError(domain.ErrorCode(apiErr.Code), apiErr.Message, cause)
}

func codeForStatus(status int) domain.ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return domain.CodeUnauthenticated
	case http.StatusNotFound:
		return domain.CodeNotFound
	case http.StatusConflict:
		return domain.CodeConflict
	case http.StatusTooManyRequests:
		return domain.CodeRateLimited
	case http.StatusBadRequest:
		return domain.CodeValidation
	}
	return domain.CodeInternal
}

// IsAuthError reports whether err means the caller must log in again.
func IsAuthError(err error) bool {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	switch domainErr.Code {
	case domain.CodeUnauthenticated, domain.CodeTokenExpired, domain.CodeInvalidToken:
		return true
	}
	return false
}
