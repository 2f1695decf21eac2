package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubGenerator records calls and returns a scripted response.
type stubGenerator struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestAnswerWithoutContextSkipsModel(t *testing.T) {
	model := &stubGenerator{response: "should never be returned"}
	gen := NewAnswerGenerator(model, nil)

	answer, err := gen.Answer(context.Background(), "any question", "", false)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != NoInformationAnswer {
		t.Errorf("answer = %q, want the no-information sentinel", answer)
	}
	if model.calls != 0 {
		t.Errorf("model called %d times, want 0", model.calls)
	}
}

func TestAnswerGroundsPromptInContext(t *testing.T) {
	model := &stubGenerator{response: "The meeting is on March 31."}
	gen := NewAnswerGenerator(model, nil)

	answer, err := gen.Answer(context.Background(), "When is the meeting?", "The meeting is on March 31.", true)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "The meeting is on March 31." {
		t.Errorf("answer = %q", answer)
	}

	if model.calls != 1 {
		t.Fatalf("model called %d times, want 1", model.calls)
	}
	prompt := model.prompts[0]
	if !strings.Contains(prompt, "The meeting is on March 31.") {
		t.Error("prompt does not contain the context block")
	}
	if !strings.Contains(prompt, "When is the meeting?") {
		t.Error("prompt does not contain the question")
	}
	if !strings.Contains(prompt, "Do not make up an answer.") {
		t.Error("prompt does not forbid fabrication")
	}
}

func TestAnswerTrimsModelOutput(t *testing.T) {
	model := &stubGenerator{response: "\n  the answer  \n"}
	gen := NewAnswerGenerator(model, nil)

	answer, err := gen.Answer(context.Background(), "q", "ctx", true)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "the answer" {
		t.Errorf("answer = %q, want trimmed output", answer)
	}
}

func TestAnswerPropagatesGenerationError(t *testing.T) {
	genErr := errors.New("quota exhausted")
	gen := NewAnswerGenerator(&stubGenerator{err: genErr}, nil)

	_, err := gen.Answer(context.Background(), "q", "ctx", true)
	if !errors.Is(err, genErr) {
		t.Errorf("Answer error = %v, want wrapped %v", err, genErr)
	}
}
