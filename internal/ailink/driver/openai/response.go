package openai

import (
	"fmt"

	sdk "github.com/openai/openai-go"

	"github.com/namelens/namesmith/internal/ailink/driver"
)

func toDriverResponse(resp *sdk.ChatCompletion) (*driver.Response, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response choices")
	}

	choice := resp.Choices[0]
	return &driver.Response{
		Text:         choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: &driver.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}
