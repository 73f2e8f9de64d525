package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Assistant answers study questions about a lecture. Answer is total: any
// failure against the inference endpoint, or an unconfigured endpoint,
// resolves to a deterministic templated fallback rather than an error.
type Assistant struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	log      *logrus.Logger
}

type Options struct {
	Endpoint   string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func New(opts Options, log *logrus.Logger) *Assistant {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	model := opts.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Assistant{
		endpoint: strings.TrimSpace(opts.Endpoint),
		apiKey:   strings.TrimSpace(opts.APIKey),
		model:    model,
		client:   client,
		log:      log,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Answer returns an answer to a question about a lecture.
func (a *Assistant) Answer(ctx context.Context, lectureTitle, lectureSummary, question string) string {
	if a.endpoint == "" || a.apiKey == "" {
		return fallbackAnswer(lectureTitle, question)
	}

	payload := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: fmt.Sprintf(
					"You are a study assistant for the lecture %q. Lecture summary: %s. Answer the student's question concisely.",
					lectureTitle, lectureSummary),
			},
			{Role: "user", Content: question},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fallbackAnswer(lectureTitle, question)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return fallbackAnswer(lectureTitle, question)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.WithError(err).Warn("assistant: inference call failed")
		return fallbackAnswer(lectureTitle, question)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.log.WithField("status", resp.StatusCode).Warn("assistant: inference endpoint returned non-200")
		return fallbackAnswer(lectureTitle, question)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		a.log.WithError(err).Warn("assistant: failed to decode inference response")
		return fallbackAnswer(lectureTitle, question)
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return fallbackAnswer(lectureTitle, question)
	}
	return decoded.Choices[0].Message.Content
}

func fallbackAnswer(lectureTitle, question string) string {
	title := strings.TrimSpace(lectureTitle)
	if title == "" {
		title = "this lecture"
	}
	return fmt.Sprintf(
		"I can't reach the study assistant right now. Your question about %s was: %q. "+
			"Try re-watching the relevant part of the lecture and checking its attached resources, then ask again later.",
		title, strings.TrimSpace(question))
}
