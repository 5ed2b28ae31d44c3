package store

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

// ImportDir loads <pool>_questions.json for each pool from dir into db.
// Missing or malformed files are logged and skipped.
func ImportDir(db DB, dir string, pools []trivia.Pool, logger *log.Logger) (int, error) {
	total := 0
	for _, pool := range pools {
		path := filepath.Join(dir, trivia.FileName(pool))
		questions, err := trivia.LoadFile(path)
		if err != nil {
			logger.Printf("question_import_skipped pool=%s path=%s err=%v", pool, path, err)
			continue
		}
		n, err := db.ImportQuestions(pool, questions)
		if err != nil {
			return total, fmt.Errorf("import %s: %w", pool, err)
		}
		logger.Printf("questions_imported pool=%s read=%d inserted=%d", pool, len(questions), n)
		total += n
	}
	return total, nil
}

// QuestionSource serves questions from the database, falling back to the
// built-in questions for pools that have none stored.
type QuestionSource struct {
	db     DB
	rng    engine.RNG
	logger *log.Logger

	mu    sync.Mutex
	cache map[trivia.Pool][]trivia.Question
}

// NewQuestionSource returns a trivia.Source backed by db.
func NewQuestionSource(db DB, rng engine.RNG, logger *log.Logger) *QuestionSource {
	return &QuestionSource{
		db:     db,
		rng:    rng,
		logger: logger,
		cache:  make(map[trivia.Pool][]trivia.Question),
	}
}

// Question returns a uniformly random question from pool.
func (s *QuestionSource) Question(ctx context.Context, pool trivia.Pool) (trivia.Question, error) {
	questions, err := s.load(ctx, pool)
	if err != nil {
		return trivia.Question{}, err
	}
	return engine.Pick(s.rng, questions), nil
}

func (s *QuestionSource) load(ctx context.Context, pool trivia.Pool) ([]trivia.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qs, ok := s.cache[pool]; ok {
		return qs, nil
	}
	qs, err := s.db.Questions(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("load %s questions: %w", pool, err)
	}
	if len(qs) == 0 {
		if s.logger != nil {
			s.logger.Printf("using_builtin_questions pool=%s reason=empty_pool", pool)
		}
		qs = trivia.Fallback()
	}
	s.cache[pool] = qs
	return qs, nil
}
