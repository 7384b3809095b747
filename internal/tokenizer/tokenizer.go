// Package tokenizer estimates token counts of rendered documents.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content. Name reports the model or
// encoding the counts are based on.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	errorFallbackEncodingFormat = "initialize fallback tokenizer: %w"
)

// NewCounter returns a Counter for model. Models unknown to tiktoken fall back to
// the cl100k_base encoding, which the Counter then reports as its Name.
func NewCounter(model string) (Counter, error) {
	normalizedModel := strings.ToLower(strings.TrimSpace(model))
	if normalizedModel == "" {
		normalizedModel = DefaultModel
	}

	if isOpenAIModel(normalizedModel) {
		encoding, encodingError := tiktoken.EncodingForModel(normalizedModel)
		if encodingError == nil && encoding != nil {
			return openAICounter{encoding: encoding, name: normalizedModel}, nil
		}
	}

	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, fmt.Errorf(errorFallbackEncodingFormat, fallbackError)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, nil
}

func isOpenAIModel(model string) bool {
	prefixes := []string{
		"gpt-",
		"text-embedding",
		"davinci",
		"curie",
		"babbage",
		"ada",
		"code-",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
