package groq

import "context"

// Provider adapts the Groq client to the tutor generation interface
// with a fixed model and temperature.
type Provider struct {
	client      *Client
	model       string
	temperature float64
}

func NewProvider(client *Client, model string, temperature float64) *Provider {
	if model == "" {
		model = DefaultModel
	}

	return &Provider{
		client:      client,
		model:       model,
		temperature: temperature,
	}
}

func (p *Provider) Generate(ctx context.Context, system, prompt string) (string, error) {
	messages := []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	}

	return p.client.Chat(ctx, p.model, p.temperature, messages)
}

func (p *Provider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}
