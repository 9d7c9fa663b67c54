package suggest

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ProviderType represents the type of completion provider
type ProviderType string

const (
	GeminiProvider ProviderType = "gemini"
	OpenAIProvider ProviderType = "openai"
	AzureProvider  ProviderType = "azure"
	GitHubProvider ProviderType = "github"
	StaticProvider ProviderType = "static"
)

// GitHub Models serves an OpenAI-compatible API
const (
	DefaultGitHubBaseURL = "https://models.inference.ai.azure.com"
	DefaultGitHubModel   = "gpt-4o-mini"
)

// ProviderConfig describes how to reach a provider. For Azure, BaseURL is the
// resource endpoint and Model the deployment name.
type ProviderConfig struct {
	Type    ProviderType  `yaml:"provider"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Registry builds completers by name and caches them
type Registry struct {
	providers map[string]ProviderConfig
	instances map[string]Completer
	mu        sync.RWMutex
}

// NewRegistry creates a registry with the offline "static" provider registered
func NewRegistry() *Registry {
	return &Registry{
		providers: map[string]ProviderConfig{
			string(StaticProvider): {Type: StaticProvider},
		},
		instances: make(map[string]Completer),
	}
}

// Register adds or replaces a provider configuration
func (r *Registry) Register(name string, cfg ProviderConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = cfg
	delete(r.instances, name)
}

// Names returns the registered provider names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Get returns an initialized completer
func (r *Registry) Get(name string) (Completer, error) {
	r.mu.RLock()
	c, ok := r.instances[name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.instances[name]; ok {
		return c, nil
	}

	cfg, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown completion provider: %s", name)
	}

	c, err := newCompleter(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider %s: %w", name, err)
	}
	r.instances[name] = c
	return c, nil
}

func newCompleter(cfg ProviderConfig) (Completer, error) {
	switch cfg.Type {
	case GeminiProvider, "":
		return NewGeminiClient(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.Timeout), nil
	case OpenAIProvider:
		return NewOpenAICompleter(cfg.Model, cfg.BaseURL, cfg.APIKey)
	case AzureProvider:
		return NewAzureCompleter(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case GitHubProvider:
		baseURL, model := cfg.BaseURL, cfg.Model
		if baseURL == "" {
			baseURL = DefaultGitHubBaseURL
		}
		if model == "" {
			model = DefaultGitHubModel
		}
		return NewOpenAICompleter(model, baseURL, cfg.APIKey)
	case StaticProvider:
		return StaticCompleter{}, nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Type)
	}
}

// Ping checks that a provider answers a trivial prompt
func (r *Registry) Ping(ctx context.Context, name string) error {
	c, err := r.Get(name)
	if err != nil {
		return err
	}
	_, err = c.Complete(ctx, "Hello, are you working? Please respond with a short answer.")
	return err
}
