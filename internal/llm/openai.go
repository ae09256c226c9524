package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/address-verifier/app/models"
	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Mode cách yêu cầu model trả JSON
type Mode string

// Mode constants
const (
	ModeStructured Mode = "structured"  // json_schema strict
	ModeJSONObject Mode = "json_object" // chat completion JSON mode
)

// DefaultModel model mặc định
const DefaultModel = openai.GPT4oMini

// SystemPrompt hướng dẫn model trích xuất các trường địa chỉ Mỹ
const SystemPrompt = "You parse US addresses into JSON. Return ONLY valid JSON with these fields: " +
	"number (street number), prefix (N/S/E/W), name (street name), type (St/Ave/Blvd/etc), " +
	"suffix (NE/SW/etc), city, state (2-letter), postal (ZIP code). Use empty strings for missing fields."

// addressSchema schema strict cho structured output, mọi trường bắt buộc
var addressSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "number": {"type": "string"},
    "prefix": {"type": "string"},
    "name":   {"type": "string"},
    "type":   {"type": "string"},
    "suffix": {"type": "string"},
    "city":   {"type": "string"},
    "state":  {"type": "string"},
    "postal": {"type": "string"}
  },
  "required": ["number", "prefix", "name", "type", "suffix", "city", "state", "postal"],
  "additionalProperties": false
}`)

// Config cấu hình OpenAIExtractor
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Mode       Mode
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OpenAIExtractor trích xuất ParsedAddress bằng OpenAI chat completions
type OpenAIExtractor struct {
	client  *openai.Client
	model   string
	mode    Mode
	timeout time.Duration
	logger  *zap.Logger
}

// NewOpenAIExtractor tạo mới OpenAIExtractor
func NewOpenAIExtractor(cfg Config, logger *zap.Logger) (*OpenAIExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientConfig.HTTPClient = cfg.HTTPClient
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	mode := cfg.Mode
	if mode == "" {
		mode = ModeStructured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIExtractor{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		mode:    mode,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Name tên extractor
func (e *OpenAIExtractor) Name() string {
	return "openai:" + e.model
}

// Extract gọi model một lần cho một dòng địa chỉ
func (e *OpenAIExtractor) Extract(ctx context.Context, line string) (models.ParsedAddress, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: line},
		},
		Temperature:    0,
		ResponseFormat: e.responseFormat(),
	})
	if err != nil {
		return models.ParsedAddress{}, eris.Wrap(err, "llm: chat completion")
	}
	if len(resp.Choices) == 0 {
		return models.ParsedAddress{}, eris.New("Empty LLM response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return models.ParsedAddress{}, eris.New("Empty LLM response")
	}

	obj, err := ExtractJSONObject(text)
	if err != nil {
		e.logger.Warn("Model trả về JSON không hợp lệ", zap.String("model", e.model), zap.Error(err))
		return models.ParsedAddress{}, err
	}
	return ToParsedAddress(obj), nil
}

func (e *OpenAIExtractor) responseFormat() *openai.ChatCompletionResponseFormat {
	if e.mode == ModeJSONObject {
		return &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   "AddressFields",
			Schema: addressSchema,
			Strict: true,
		},
	}
}
