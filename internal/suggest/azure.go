package suggest

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
)

const kitchenSystemPrompt = "You are a kitchen planning assistant for a catering team. " +
	"Answer concisely and practically."

// AzureCompleter uses an Azure OpenAI chat deployment
type AzureCompleter struct {
	client         *azopenai.Client
	deploymentName string
	temperature    float32
	maxTokens      int32
}

// NewAzureCompleter creates a completer for the given endpoint and deployment
func NewAzureCompleter(endpoint, apiKey, deploymentName string) (*AzureCompleter, error) {
	if endpoint == "" || apiKey == "" || deploymentName == "" {
		return nil, fmt.Errorf("azure openai configuration missing: endpoint, api key and deployment are required")
	}

	client, err := azopenai.NewClientWithKeyCredential(endpoint, azcore.NewKeyCredential(apiKey), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure OpenAI client: %w", err)
	}

	return &AzureCompleter{
		client:         client,
		deploymentName: deploymentName,
		temperature:    0.7,
		maxTokens:      2000,
	}, nil
}

// Complete sends prompt as a single user message prefixed with the assistant instructions
func (a *AzureCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(kitchenSystemPrompt + "\n\n" + prompt),
			},
		},
		MaxTokens:      to.Ptr(a.maxTokens),
		Temperature:    to.Ptr(a.temperature),
		DeploymentName: to.Ptr(a.deploymentName),
	}, nil)
	if err != nil {
		return "", fmt.Errorf("azure openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", ErrUnexpectedResponse
	}
	return *resp.Choices[0].Message.Content, nil
}
