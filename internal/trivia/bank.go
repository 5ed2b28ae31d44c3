package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
)

// LoadFile reads a question list from path. The root must be a JSON list and
// every entry needs a non-empty question and answer.
func LoadFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a question list.
func Parse(data []byte) ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBank, err)
	}
	for i, q := range questions {
		if q.Prompt == "" || q.Answer == "" {
			return nil, fmt.Errorf("%w: entry %d needs question and answer", ErrMalformedBank, i)
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrMalformedBank)
	}
	return questions, nil
}

// Bank is an in-memory Source holding one question list per pool.
type Bank struct {
	pools map[Pool][]Question
	rng   engine.RNG
}

// NewBank builds a bank from explicit question lists.
func NewBank(pools map[Pool][]Question, rng engine.RNG) *Bank {
	return &Bank{pools: pools, rng: rng}
}

// LoadBank reads <pool>_questions.json from dir for each pool. A missing or
// malformed file is replaced by the fallback questions and logged.
func LoadBank(dir string, pools []Pool, rng engine.RNG, logger *log.Logger) *Bank {
	return NewBank(LoadPools(dir, pools, logger), rng)
}

// LoadPools reads the question file of each pool with the same fallback
// rules as LoadBank. The result can be shared by many banks.
func LoadPools(dir string, pools []Pool, logger *log.Logger) map[Pool][]Question {
	if logger == nil {
		logger = log.New(os.Stdout, "[TRIVIA] ", log.LstdFlags)
	}
	loaded := make(map[Pool][]Question, len(pools))
	for _, pool := range pools {
		path := filepath.Join(dir, FileName(pool))
		questions, err := LoadFile(path)
		if err != nil {
			logger.Printf("using_builtin_questions pool=%s path=%s err=%v", pool, path, err)
			questions = Fallback()
		} else {
			logger.Printf("questions_loaded pool=%s count=%d", pool, len(questions))
		}
		loaded[pool] = questions
	}
	return loaded
}

// Question returns a uniformly random question from pool.
func (b *Bank) Question(ctx context.Context, pool Pool) (Question, error) {
	questions, ok := b.pools[pool]
	if !ok {
		return Question{}, fmt.Errorf("%w: %s", ErrUnknownPool, pool)
	}
	if len(questions) == 0 {
		return Question{}, fmt.Errorf("%w: %s", ErrEmptyPool, pool)
	}
	return engine.Pick(b.rng, questions), nil
}

// Count returns how many questions pool holds.
func (b *Bank) Count(pool Pool) int {
	return len(b.pools[pool])
}
