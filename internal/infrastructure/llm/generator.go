// Package llm produces onboarding checklist items. The Client calls a
// chat-completions style HTTP collaborator; TemplateGenerator is the
// deterministic fallback used when no collaborator is configured.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/onboardhq/onboarding-system/internal/api/metrics"
	"github.com/onboardhq/onboarding-system/internal/core/domain"
	"github.com/onboardhq/onboarding-system/internal/core/ports"
)

const requestTimeout = 30 * time.Second

// Config captures the settings for the LLM collaborator.
type Config struct {
	APIURL string
	APIKey string
	Model  string
}

// NewGenerator returns the LLM client when an API key is configured, the
// template generator otherwise.
func NewGenerator(cfg Config) ports.ChecklistGenerator {
	if cfg.APIKey == "" {
		return TemplateGenerator{}
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
}

// Client calls a chat-completions endpoint and parses the response content
// as a JSON array of checklist items.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	model      string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, role, department string) ([]domain.ChecklistItem, error) {
	prompt := fmt.Sprintf(
		"Generate an onboarding checklist for a new %s in the %s department. "+
			"Respond with only a JSON array of objects with fields: title, description, category.",
		role, department,
	)

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an HR onboarding assistant."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llm request: unexpected status %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("llm response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("llm response: no choices")
	}

	var items []domain.ChecklistItem
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &items); err != nil {
		return nil, fmt.Errorf("llm response content: %w", err)
	}

	metrics.ChecklistsGeneratedTotal.WithLabelValues("llm").Inc()
	return items, nil
}

// TemplateGenerator produces a fixed baseline checklist. Identical inputs
// always yield identical items.
type TemplateGenerator struct{}

func (TemplateGenerator) Generate(_ context.Context, role, department string) ([]domain.ChecklistItem, error) {
	items := []domain.ChecklistItem{
		{Title: "Complete HR paperwork", Description: "Sign employment contract, tax forms, and benefits enrollment.", Category: "administrative"},
		{Title: "Set up workstation and accounts", Description: "Request hardware, email, and access to team systems.", Category: "equipment"},
		{Title: fmt.Sprintf("Meet the %s team", department), Description: "Introductory sessions with teammates and key collaborators.", Category: "orientation"},
		{Title: fmt.Sprintf("Review %s role expectations", role), Description: "Walk through responsibilities and the first-quarter goals with your manager.", Category: "role"},
		{Title: "Complete security and compliance training", Description: "Mandatory training modules within the first two weeks.", Category: "training"},
	}

	metrics.ChecklistsGeneratedTotal.WithLabelValues("template").Inc()
	return items, nil
}
