package router

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider is one automation source allowed to call the webhook endpoints.
type Provider struct {
	Name  string `yaml:"name"`
	Token string `yaml:"token"`
}

type providersFile struct {
	Providers []Provider `yaml:"providers"`
}

type Providers struct {
	byToken map[string]Provider
}

// LoadProviders reads the provider registry from a YAML file. With an empty
// path it falls back to a single provider using WEBHOOK_TOKEN.
func LoadProviders(path string) (*Providers, error) {
	if path == "" {
		token := os.Getenv("WEBHOOK_TOKEN")
		if token == "" {
			return nil, errors.New("WEBHOOK_TOKEN is required when no providers file is configured")
		}
		return newProviders([]Provider{{Name: "default", Token: token}})
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading providers file: %w", err)
	}

	var file providersFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing providers file: %w", err)
	}
	if len(file.Providers) == 0 {
		return nil, fmt.Errorf("providers file %s defines no providers", path)
	}

	return newProviders(file.Providers)
}

func newProviders(list []Provider) (*Providers, error) {
	byToken := make(map[string]Provider, len(list))
	for _, p := range list {
		if p.Name == "" || p.Token == "" {
			return nil, fmt.Errorf("provider entries need both name and token")
		}
		byToken[p.Token] = p
	}

	return &Providers{byToken: byToken}, nil
}

// Authenticate matches a bearer Authorization header against the registry.
func (p *Providers) Authenticate(authHeader string) (Provider, bool) {
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return Provider{}, false
	}

	provider, ok := p.byToken[strings.TrimSpace(token)]
	return provider, ok
}
