package models

import (
	"time"
)

// Question maps the QUESTIONS table.
type Question struct {
	ID            string      `db:"ID"`
	QuizType      string      `db:"QUIZ_TYPE"`
	Question      string      `db:"QUESTION"`
	Options       StringSlice `db:"OPTIONS"`
	CorrectAnswer string      `db:"CORRECT_ANSWER"`
	CreatedAt     time.Time   `db:"CREATED_AT"`
	UpdatedAt     time.Time   `db:"UPDATED_AT"`
}

// QuizResult maps the QUIZ_RESULTS table.
type QuizResult struct {
	ID              string    `db:"ID"`
	AccountID       string    `db:"ACCOUNT_ID"`
	UserName        string    `db:"USER_NAME"`
	QuizType        string    `db:"QUIZ_TYPE"`
	TotalQuestions  int       `db:"TOTAL_QUESTIONS"`
	Score           int       `db:"SCORE"`
	CorrectAnswers  int       `db:"CORRECT_ANSWERS"`
	WrongAnswers    int       `db:"WRONG_ANSWERS"`
	TimeTaken       int       `db:"TIME_TAKEN"`
	QuestionTimes   IntSlice  `db:"QUESTION_TIMES"`
	PercentageScore float64   `db:"PERCENTAGE_SCORE"`
	CreatedAt       time.Time `db:"CREATED_AT"`
}

// Contact maps the CONTACTS table.
type Contact struct {
	ID        string    `db:"ID"`
	Name      string    `db:"NAME"`
	Email     string    `db:"EMAIL"`
	Message   string    `db:"MESSAGE"`
	CreatedAt time.Time `db:"CREATED_AT"`
	UpdatedAt time.Time `db:"UPDATED_AT"`
}
