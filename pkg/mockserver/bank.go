package mockserver

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/rehearse/pkg/interview"
)

//go:embed default_bank.toml
var defaultBankTOML string

// BankQuestion is one question template. An empty Position makes the
// question available to every session.
type BankQuestion struct {
	Position string `toml:"position"`
	Text     string `toml:"text"`
}

type bankFile struct {
	Positions []interview.Position `toml:"position"`
	Questions []BankQuestion       `toml:"question"`
}

// Bank holds the positions and questions served by the mock backend. It is
// safe for concurrent use and can be reloaded in place.
type Bank struct {
	mu        sync.RWMutex
	positions []interview.Position
	questions []BankQuestion
}

// DefaultBank returns the built-in bank.
func DefaultBank() *Bank {
	b := &Bank{}
	if err := b.load(defaultBankTOML); err != nil {
		panic(fmt.Sprintf("mockserver: invalid default bank: %v", err))
	}
	return b
}

// LoadBank reads a bank from a TOML file.
func LoadBank(path string) (*Bank, error) {
	b := &Bank{}
	if err := b.Reload(path); err != nil {
		return nil, err
	}
	return b, nil
}

// Reload replaces the bank's contents with those of the file at path. The
// current contents are kept when the file cannot be read or parsed.
func (b *Bank) Reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading question bank: %w", err)
	}
	return b.load(string(data))
}

func (b *Bank) load(data string) error {
	var f bankFile
	if _, err := toml.Decode(data, &f); err != nil {
		return fmt.Errorf("parsing question bank: %w", err)
	}

	questions := make([]BankQuestion, 0, len(f.Questions))
	for _, q := range f.Questions {
		// A newline would end the data line of an event frame.
		text := strings.Join(strings.Fields(q.Text), " ")
		if text == "" {
			continue
		}
		questions = append(questions, BankQuestion{Position: strings.TrimSpace(q.Position), Text: text})
	}
	if len(questions) == 0 {
		return fmt.Errorf("parsing question bank: no questions")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.positions = f.Positions
	b.questions = questions
	return nil
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.questions)
}

// Positions returns a copy of the bank's positions.
func (b *Bank) Positions() []interview.Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]interview.Position, len(b.positions))
	copy(out, b.positions)
	return out
}

// Pick returns the n-th question for position, cycling through the
// position's questions, or through the general questions when the
// position has none.
func (b *Bank) Pick(position string, n int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var general, matched []string
	for _, q := range b.questions {
		switch {
		case strings.EqualFold(q.Position, position):
			matched = append(matched, q.Text)
		case q.Position == "":
			general = append(general, q.Text)
		}
	}

	pool := matched
	if len(pool) == 0 {
		pool = general
	}
	if len(pool) == 0 {
		pool = []string{b.questions[0].Text}
	}

	if n < 0 {
		n = 0
	}
	return pool[n%len(pool)]
}
