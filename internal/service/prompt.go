package service

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/ahmednasr/namastebot/internal/models"
)

//go:embed prompts/guide_answer.txt
var guideAnswerTemplate string

//go:embed prompts/general_answer.txt
var generalSystemPrompt string

var guideAnswerPrompt = prompts.NewPromptTemplate(guideAnswerTemplate, []string{"context", "question"})

// buildGuidePrompt asks the model to answer question strictly from chunks.
func buildGuidePrompt(question string, chunks []models.GuideChunk) (string, error) {
	var sb strings.Builder
	for i, c := range chunks {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, strings.TrimSpace(c.Text)))
	}

	prompt, err := guideAnswerPrompt.Format(map[string]any{
		"context":  strings.TrimSpace(sb.String()),
		"question": question,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render guide prompt: %w", err)
	}
	return prompt, nil
}
