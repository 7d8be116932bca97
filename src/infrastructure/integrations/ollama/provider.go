package ollama

import "context"

// Provider adapts the Ollama client to the tutor embedding interface
// with a fixed model.
type Provider struct {
	client *Client
	model  string
}

func NewProvider(client *Client, model string) *Provider {
	if model == "" {
		model = DefaultEmbeddingModel
	}

	return &Provider{
		client: client,
		model:  model,
	}
}

func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.client.GetEmbedding(ctx, p.model, text)
}

func (p *Provider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}
