// Package trivia supplies the questions that gate movement and checks the
// answers given to them.
package trivia

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedBank indicates a question file that is not a JSON list of
	// question objects.
	ErrMalformedBank = errors.New("malformed question bank")
	// ErrUnknownPool indicates a pool name outside easy, medium and hard.
	ErrUnknownPool = errors.New("unknown question pool")
	// ErrEmptyPool indicates a pool with no questions to draw from.
	ErrEmptyPool = errors.New("question pool is empty")
)

// Pool names a difficulty tier of questions.
type Pool string

const (
	Easy   Pool = "easy"
	Medium Pool = "medium"
	Hard   Pool = "hard"
)

// Pools lists every pool in ascending difficulty.
var Pools = []Pool{Easy, Medium, Hard}

// ParsePool validates a pool name.
func ParsePool(s string) (Pool, error) {
	p := Pool(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Pools {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPool, s)
}

// FileName is the question file read for pool, e.g. "easy_questions.json".
func FileName(pool Pool) string {
	return string(pool) + "_questions.json"
}

// Question is one prompt with its expected answer.
type Question struct {
	Prompt string `json:"question"`
	Answer string `json:"answer"`
}

// Source hands out questions for a pool.
type Source interface {
	Question(ctx context.Context, pool Pool) (Question, error)
}

// Check reports whether given matches the expected answer: surrounding
// whitespace is ignored and the comparison is case-insensitive but otherwise
// exact.
func Check(q Question, given string) bool {
	return strings.EqualFold(strings.TrimSpace(given), q.Answer)
}

// Fallback is served for any pool whose question file is missing or
// malformed.
func Fallback() []Question {
	return []Question{
		{Prompt: "What is 2 + 2?", Answer: "4"},
		{Prompt: "What color is the sky on a clear day?", Answer: "blue"},
		{Prompt: "Which language is this game written in?", Answer: "go"},
	}
}
