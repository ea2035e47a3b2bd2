package llm

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/viant/mcp-agent/agent/config"
)

// Azure is a Client backed by an Azure OpenAI deployment.
type Azure struct {
	client     *openai.Client
	deployment string
}

// NewAzure validates cfg and creates the client. Without an API key the
// default Azure credential chain supplies bearer tokens for the Cognitive
// Services scope.
func NewAzure(cfg *config.Azure, opts ...option.RequestOption) (*Azure, error) {
	if cfg == nil {
		return nil, fmt.Errorf("azure config is missing")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = config.DefaultAPIVersion
	}
	options := []option.RequestOption{azure.WithEndpoint(cfg.Endpoint(), apiVersion)}
	if cfg.HasAPIKey() {
		options = append(options, azure.WithAPIKey(cfg.APIKey))
	} else {
		credential, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("azure credential: %w", err)
		}
		options = append(options, azure.WithTokenCredential(credential))
	}
	options = append(options, opts...)
	client := openai.NewClient(options...)
	return &Azure{client: &client, deployment: cfg.Deployment}, nil
}

// Complete sends messages to the deployment and returns the first choice,
// or an empty string when the service returns none.
func (a *Azure) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(a.deployment),
		Messages: toParams(messages),
	}
	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("azure openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}
