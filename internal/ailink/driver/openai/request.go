package openai

import (
	"fmt"
	"strings"

	sdk "github.com/openai/openai-go"

	"github.com/namelens/namesmith/internal/ailink/driver"
)

func buildParams(req *driver.Request) (sdk.ChatCompletionNewParams, error) {
	if req == nil {
		return sdk.ChatCompletionNewParams{}, fmt.Errorf("request is required")
	}
	if strings.TrimSpace(req.Model) == "" {
		return sdk.ChatCompletionNewParams{}, fmt.Errorf("model is required")
	}

	messages, err := convertMessages(req.Messages)
	if err != nil {
		return sdk.ChatCompletionNewParams{}, err
	}

	params := sdk.ChatCompletionNewParams{
		Model:    req.Model,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = sdk.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = sdk.Float(*req.Temperature)
	}
	if req.JSONMode {
		params.ResponseFormat = sdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &sdk.ResponseFormatJSONObjectParam{},
		}
	}

	return params, nil
}

func convertMessages(messages []driver.Message) ([]sdk.ChatCompletionMessageParamUnion, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("messages are required")
	}
	result := make([]sdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch strings.ToLower(strings.TrimSpace(msg.Role)) {
		case "system":
			result = append(result, sdk.SystemMessage(msg.Content))
		case "user":
			result = append(result, sdk.UserMessage(msg.Content))
		case "assistant":
			result = append(result, sdk.AssistantMessage(msg.Content))
		default:
			return nil, fmt.Errorf("unsupported message role: %q", msg.Role)
		}
	}
	return result, nil
}
