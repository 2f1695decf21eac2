package testutil

import (
	"context"
	"sync"
)

// ScriptedGenerator is a rag.TextGenerator for tests. With Echo set it
// returns the prompt verbatim, so assertions can check what context
// reached the model; otherwise it returns Response. Calls counts
// invocations — the sentinel-answer tests assert it stays zero.
type ScriptedGenerator struct {
	Response string
	Echo     bool
	Err      error

	mu    sync.Mutex
	calls int
}

// Generate returns the scripted output.
func (s *ScriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.Err != nil {
		return "", s.Err
	}
	if s.Echo {
		return prompt, nil
	}
	return s.Response, nil
}

// Calls reports how many times Generate was invoked.
func (s *ScriptedGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
