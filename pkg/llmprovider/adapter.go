package llmprovider

import (
	"context"
	"fmt"

	"quantumreview/pkg/deepseek"
	"quantumreview/pkg/gemini"
)

// GeminiAdapter adapts pkg/gemini to the llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	messages := make([]gemini.Message, len(req.Messages))
	for i, m := range req.Messages {
		role := m.Role
		// Gemini names the assistant role "model"
		if role == "assistant" {
			role = "model"
		}
		messages[i] = gemini.Message{Role: role, Text: m.Text}
	}

	resp, err := a.client.GenerateContent(ctx, &gemini.Request{
		SystemInstruction: req.SystemInstruction,
		Messages:          messages,
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	})
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Err: err}
	}

	return &Response{
		Text:         resp.Text,
		ProviderName: "gemini",
		ModelName:    a.client.Model(),
	}, nil
}

// Name returns provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Model returns model name
func (a *GeminiAdapter) Model() string {
	return a.client.Model()
}

// DeepSeekAdapter adapts pkg/deepseek to the llmprovider.Provider interface
type DeepSeekAdapter struct {
	client deepseek.IDeepSeek
}

// NewDeepSeekAdapter creates a new DeepSeek adapter
func NewDeepSeekAdapter(client deepseek.IDeepSeek) *DeepSeekAdapter {
	return &DeepSeekAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *DeepSeekAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	messages := make([]deepseek.Message, 0, len(req.Messages)+1)
	if req.SystemInstruction != "" {
		messages = append(messages, deepseek.Message{Role: "system", Content: req.SystemInstruction})
	}
	for _, m := range req.Messages {
		messages = append(messages, deepseek.Message{Role: m.Role, Content: m.Text})
	}

	resp, err := a.client.GenerateContent(ctx, &deepseek.Request{
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, &ProviderError{Provider: "deepseek", Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: "deepseek", Err: fmt.Errorf("empty response")}
	}

	return &Response{
		Text:         resp.Choices[0].Message.Content,
		ProviderName: "deepseek",
		ModelName:    a.client.Model(),
	}, nil
}

// Name returns provider name
func (a *DeepSeekAdapter) Name() string {
	return "deepseek"
}

// Model returns model name
func (a *DeepSeekAdapter) Model() string {
	return a.client.Model()
}
