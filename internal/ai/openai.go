package ai

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Defaults are the platform-wide model parameters used when an agent's
// configuration leaves them unset.
type Defaults struct {
	Model       string
	Temperature float64
	MaxTokens   int64
}

// OpenAIClient implements Client against the OpenAI API: whisper-1 for
// transcription, chat completions for replies, tts-1 for synthesis.
type OpenAIClient struct {
	client   *openai.Client
	defaults Defaults
}

// NewOpenAIClient creates a provider client. Request options come from the
// SDK (API key, base URL, HTTP client).
func NewOpenAIClient(defaults Defaults, opts ...option.RequestOption) *OpenAIClient {
	if defaults.Model == "" {
		defaults.Model = openai.ChatModelGPT3_5Turbo
	}
	client := openai.NewClient(opts...)
	return &OpenAIClient{
		client:   &client,
		defaults: defaults,
	}
}

func (c *OpenAIClient) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	transcription, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(audio, filename, "application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	return strings.TrimSpace(transcription.Text), nil
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error) {
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			openaiMessages[i] = openai.SystemMessage(msg.Content)
		case RoleUser:
			openaiMessages[i] = openai.UserMessage(msg.Content)
		case RoleAssistant:
			openaiMessages[i] = openai.AssistantMessage(msg.Content)
		default:
			return "", fmt.Errorf("unknown role: %s", msg.Role)
		}
	}

	model := opts.Model
	if model == "" {
		model = c.defaults.Model
	}
	temperature := c.defaults.Temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := c.defaults.MaxTokens
	if opts.MaxTokens != nil {
		maxTokens = *opts.MaxTokens
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    openaiMessages,
		Model:       model,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response generated by model %s", model)
	}
	return completion.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	res, err := c.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModelTTS1,
		Voice: openai.AudioSpeechNewParamsVoice(voice),
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer res.Body.Close()

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading speech response: %w", err)
	}
	return audio, nil
}
