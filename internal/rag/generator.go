package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// TextGenerator is the generative-model boundary: one grounded prompt
// in, the model's text out.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenkitGenerator implements TextGenerator on a Genkit model reference.
type GenkitGenerator struct {
	g     *genkit.Genkit
	model ai.ModelRef
}

// NewGenkitGenerator creates a GenkitGenerator for the given model.
func NewGenkitGenerator(g *genkit.Genkit, model ai.ModelRef) *GenkitGenerator {
	return &GenkitGenerator{g: g, model: model}
}

// Generate sends the prompt to the model and returns its text output.
func (gg *GenkitGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := genkit.Generate(ctx, gg.g,
		ai.WithModel(gg.model),
		ai.WithSystem("You are an expert assistant for Gram Panchayat documents."),
		ai.WithPrompt(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("model generation: %w", err)
	}
	return resp.Text(), nil
}

// AnswerGenerator produces the final answer for a query from an
// assembled context block.
type AnswerGenerator struct {
	model  TextGenerator
	logger *slog.Logger
}

// NewAnswerGenerator creates an AnswerGenerator.
func NewAnswerGenerator(model TextGenerator, logger *slog.Logger) *AnswerGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerGenerator{model: model, logger: logger}
}

// Answer generates a grounded answer. When hasContext is false it
// returns NoInformationAnswer without calling the model — there is
// nothing to ground an answer in, and an ungrounded model call risks a
// fabricated one. Generation errors are propagated; the caller must
// surface them rather than substitute an answer.
func (a *AnswerGenerator) Answer(ctx context.Context, query, contextBlock string, hasContext bool) (string, error) {
	if !hasContext {
		a.logger.Debug("no usable context, returning sentinel answer")
		return NoInformationAnswer, nil
	}

	ctx, cancel := context.WithTimeout(ctx, GenerateTimeout)
	defer cancel()

	answer, err := a.model.Generate(ctx, groundedPrompt(contextBlock, query))
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// groundedPrompt instructs the model to answer strictly from the
// supplied context and to admit ignorance rather than fabricate.
func groundedPrompt(contextBlock, query string) string {
	var b strings.Builder
	b.WriteString("Use the following context to answer the question at the end.\n")
	b.WriteString("If you don't know the answer from the context provided, just say that you don't know. Do not make up an answer.\n\n")
	b.WriteString("Context:\n---\n")
	b.WriteString(contextBlock)
	b.WriteString("\n---\n\n")
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nAnswer:")
	return b.String()
}
