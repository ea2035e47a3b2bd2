package config

import (
	"fmt"
	"strings"
)

// Azure describes the Azure OpenAI deployment the agent talks to. APIKey may
// stay empty when the ambient Azure credential chain is used instead.
type Azure struct {
	APIKey       string `yaml:"api_key,omitempty" json:"api_key,omitempty" toml:"api_key,omitempty"`
	ResourceName string `yaml:"resource_name,omitempty" json:"resource_name,omitempty" toml:"resource_name,omitempty" validate:"required_without=EndpointURL"`
	Deployment   string `yaml:"azure_deployment,omitempty" json:"azure_deployment,omitempty" toml:"azure_deployment,omitempty" validate:"required"`
	APIVersion   string `yaml:"api_version,omitempty" json:"api_version,omitempty" toml:"api_version,omitempty"`
	EndpointURL  string `yaml:"endpoint,omitempty" json:"endpoint,omitempty" toml:"endpoint,omitempty" validate:"omitempty,url"`
}

// Endpoint returns the explicit endpoint when set, otherwise the URL derived
// from the resource name.
func (a *Azure) Endpoint() string {
	if a.EndpointURL != "" {
		return a.EndpointURL
	}
	if a.ResourceName == "" {
		return ""
	}
	return "https://" + strings.TrimSpace(a.ResourceName) + ".openai.azure.com/"
}

// Validate reports missing or malformed Azure settings.
func (a *Azure) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("invalid azure config: %w", err)
	}
	return nil
}

// HasAPIKey reports whether key based authentication is configured.
func (a *Azure) HasAPIKey() bool { return a.APIKey != "" }

func (a *Azure) merge(overlay *Azure) {
	setIfNotEmpty(&a.APIKey, overlay.APIKey)
	setIfNotEmpty(&a.ResourceName, overlay.ResourceName)
	setIfNotEmpty(&a.Deployment, overlay.Deployment)
	setIfNotEmpty(&a.APIVersion, overlay.APIVersion)
	setIfNotEmpty(&a.EndpointURL, overlay.EndpointURL)
}

// envFallbacks lists, per field, the environment variables consulted in
// order when the field is empty.
func (a *Azure) envFallbacks() []struct {
	target *string
	keys   []string
} {
	return []struct {
		target *string
		keys   []string
	}{
		{&a.APIKey, []string{"AZURE_OPENAI_API_KEY", "OPENAI_API_KEY"}},
		{&a.EndpointURL, []string{"AZURE_OPENAI_ENDPOINT"}},
		{&a.ResourceName, []string{"AZURE_OPENAI_RESOURCE_NAME"}},
		{&a.Deployment, []string{"AZURE_OPENAI_DEPLOYMENT"}},
		{&a.APIVersion, []string{"OPENAI_API_VERSION"}},
	}
}

func (a *Azure) applyEnv(lookup func(string) (string, bool)) {
	for _, fallback := range a.envFallbacks() {
		if *fallback.target != "" {
			continue
		}
		for _, key := range fallback.keys {
			if value, ok := lookup(key); ok && value != "" {
				*fallback.target = value
				break
			}
		}
	}
}

func setIfNotEmpty(target *string, value string) {
	if value != "" {
		*target = value
	}
}
