// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Reflection defaults. The base URL is Gemini's OpenAI-compatible endpoint.
const (
	DefaultReflectionsBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultReflectionsModel   = "gemini-3-flash-preview"
	DefaultInspirationTopic   = "gratitude"
)

// Texts returned when the model is unavailable.
const (
	FallbackInspiration = "The best of people are those who are most beneficial to people. (Prophetic Wisdom)"
	FallbackAnswer      = "I'm sorry, I'm unable to answer that right now. Please consult a local scholar or reach out to our education department."
)

const askSystemPrompt = "You are an assistant for 'Digital Islam', a faith-based organization. " +
	"Answer questions about Islam politely, accurately, and with a focus on community and positive values. " +
	"Keep answers brief (max 150 words)."

// ReflectionsConfig configures the reflections service.
type ReflectionsConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Reflections generates short reflections and answers with a chat model.
// Every failure degrades to a fixed text.
type Reflections struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewReflections creates the service. Without an API key it only returns
// the fallback texts.
func NewReflections(cfg ReflectionsConfig, logger *slog.Logger, opts ...option.RequestOption) *Reflections {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reflections{model: cfg.Model, logger: logger}
	if r.model == "" {
		r.model = DefaultReflectionsModel
	}
	if cfg.APIKey == "" {
		return r
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultReflectionsBaseURL
	}
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}, opts...)
	client := openai.NewClient(reqOpts...)
	r.client = &client
	return r
}

// Enabled reports whether a model is configured.
func (r *Reflections) Enabled() bool {
	return r.client != nil
}

// Inspiration returns a short reflection on topic.
func (r *Reflections) Inspiration(ctx context.Context, topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultInspirationTopic
	}
	prompt := fmt.Sprintf("Provide a short, uplifting Islamic reflection or a brief fact about Islamic history related to %s. "+
		"Keep it concise and inspiring for a youth audience. "+
		"Format: A short quote/verse followed by 2 sentences of reflection.", topic)

	text, err := r.complete(ctx, openai.ChatCompletionNewParams{
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(0.8),
		TopP:        openai.Float(0.9),
	})
	if err != nil {
		r.logger.Warn("reflection unavailable, using fallback", "topic", topic, "error", err)
		return FallbackInspiration
	}
	return text
}

// Ask answers a question about Islam.
func (r *Reflections) Ask(ctx context.Context, question string) string {
	text, err := r.complete(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(askSystemPrompt),
			openai.UserMessage(question),
		},
	})
	if err != nil {
		r.logger.Warn("answer unavailable, using fallback", "error", err)
		return FallbackAnswer
	}
	return text
}

func (r *Reflections) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	if r.client == nil {
		return "", errors.New("reflections not configured")
	}
	params.Model = openai.ChatModel(r.model)

	resp, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}
