package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// stdoutPublisher writes each result as one JSON line.
type stdoutPublisher struct {
	id string
	mu sync.Mutex
	w  io.Writer
}

// NewStdoutPublisher returns a publisher writing JSON lines to w (os.Stdout when nil).
func NewStdoutPublisher(id string, w io.Writer) Publisher {
	if w == nil {
		w = os.Stdout
	}
	return &stdoutPublisher{id: id, w: w}
}

// stdoutBuilder builds stdout sinks from config that write to w.
func stdoutBuilder(w io.Writer) Builder {
	return func(_ context.Context, cfg PublisherConfig, _ Logger) (Publisher, error) {
		return NewStdoutPublisher(cfg.ID, w), nil
	}
}

func (s *stdoutPublisher) ID() string   { return s.id }
func (s *stdoutPublisher) Type() string { return TypeStdout }

func (s *stdoutPublisher) Publish(_ context.Context, res Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
