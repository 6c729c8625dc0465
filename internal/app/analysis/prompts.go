package analysis

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"voice-analysis-toolkit/internal/app/model"
)

// NotAvailableAnswer is the reply the question prompt demands when the
// transcript does not contain the answer.
const NotAvailableAnswer = "That information is not available in the provided document."

// irrelevantMarker is the model's signal that a question is off-topic
const irrelevantMarker = "ERROR: The answer to this question cannot be found"

//go:embed prompts.yaml
var defaultPrompts []byte

// PromptSet holds the three analysis prompt templates
type PromptSet struct {
	Summary   string `yaml:"summary"`
	Sentiment string `yaml:"sentiment"`
	Question  string `yaml:"question"`

	summary   *template.Template
	sentiment *template.Template
	question  *template.Template
}

type promptData struct {
	Text     string
	History  string
	Question string
}

// LoadPrompts parses the built-in prompts, overriding any entry present in
// the YAML file at path
func LoadPrompts(path string) (*PromptSet, error) {
	var set PromptSet
	if err := yaml.Unmarshal(defaultPrompts, &set); err != nil {
		return nil, fmt.Errorf("failed to parse built-in prompts: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompts file: %w", err)
		}
		var override PromptSet
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to parse prompts file %s: %w", path, err)
		}
		if override.Summary != "" {
			set.Summary = override.Summary
		}
		if override.Sentiment != "" {
			set.Sentiment = override.Sentiment
		}
		if override.Question != "" {
			set.Question = override.Question
		}
	}

	var err error
	if set.summary, err = parse("summary", set.Summary); err != nil {
		return nil, err
	}
	if set.sentiment, err = parse("sentiment", set.Sentiment); err != nil {
		return nil, err
	}
	if set.question, err = parse("question", set.Question); err != nil {
		return nil, err
	}
	return &set, nil
}

func parse(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid %s prompt: %w", name, err)
	}
	return tmpl, nil
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// SummaryPrompt renders the summary prompt for text
func (p *PromptSet) SummaryPrompt(text string) (string, error) {
	return render(p.summary, promptData{Text: text})
}

// SentimentPrompt renders the sentiment prompt for text
func (p *PromptSet) SentimentPrompt(text string) (string, error) {
	return render(p.sentiment, promptData{Text: text})
}

// QuestionPrompt renders the Q&A prompt with the prior turns
func (p *PromptSet) QuestionPrompt(text, question string, history []model.Turn) (string, error) {
	return render(p.question, promptData{
		Text:     text,
		History:  FormatHistory(history),
		Question: question,
	})
}

// FormatHistory renders turns as "User: q\nAssistant: a" blocks joined by
// newlines
func FormatHistory(history []model.Turn) string {
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", turn.Question, turn.Answer))
	}
	return strings.Join(lines, "\n")
}
