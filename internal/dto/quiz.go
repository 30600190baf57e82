package dto

import "time"

// QuestionResponse represents a question in the API response
// @Description Multiple-choice question
type QuestionResponse struct {
	ID            string   `json:"id"`
	QuizType      string   `json:"quizType"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// CreateQuestionRequest represents the body of POST /api/questions
// @Description Request body for adding a question
type CreateQuestionRequest struct {
	QuizType      string   `json:"quizType"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// SaveResultRequest represents the body of POST /api/questions/save-result
// @Description Finished quiz summary
type SaveResultRequest struct {
	QuizType       string `json:"quizType"`
	TotalQuestions int    `json:"totalQuestions"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
	WrongAnswers   int    `json:"wrongAnswers"`
	TimeTaken      int    `json:"timeTaken"`
	QuestionTimes  []int  `json:"questionTimes,omitempty"`
	UserName       string `json:"userName,omitempty"`
}

// QuizResultResponse represents a stored result.
type QuizResultResponse struct {
	ID              string    `json:"id,omitempty"`
	UserName        string    `json:"userName"`
	QuizType        string    `json:"quizType"`
	TotalQuestions  int       `json:"totalQuestions"`
	Score           int       `json:"score"`
	CorrectAnswers  int       `json:"correctAnswers"`
	WrongAnswers    int       `json:"wrongAnswers"`
	TimeTaken       int       `json:"timeTaken"`
	QuestionTimes   []int     `json:"questionTimes,omitempty"`
	PercentageScore float64   `json:"percentageScore"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

type QuizResultsResponse struct {
	Results        []QuizResultResponse `json:"results"`
	PaginationInfo PaginationInfo       `json:"pagination_info"`
}

// ContactRequest represents the body of POST /api/contact
// @Description Contact form submission
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
