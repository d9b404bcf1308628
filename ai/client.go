// Package ai wraps the external OpenAI endpoints the app uses: chat
// completions for summarization and friends, speech synthesis for
// audio summaries and transcription for audio uploads.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Voices the TTS endpoint accepts. Exposed through the public voice
// list endpoint so the frontend doesn't hardcode them.
var Voices = []string{"alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer", "verse"}

type Client struct {
	HTTP    *http.Client
	BaseURL string

	apiKey          string
	textModel       string
	ttsModel        string
	ttsVoice        string
	transcribeModel string
}

func NewClient() *Client {
	return &Client{
		HTTP:            &http.Client{Timeout: 90 * time.Second},
		BaseURL:         defaultBaseURL,
		apiKey:          viper.GetString("openai.api_key"),
		textModel:       viper.GetString("openai.text_model"),
		ttsModel:        viper.GetString("openai.tts_model"),
		ttsVoice:        viper.GetString("openai.tts_voice"),
		transcribeModel: viper.GetString("openai.transcribe_model"),
	}
}

// DefaultVoice reports the voice used when a TTS request doesn't pick one
func (c *Client) DefaultVoice() string {
	return c.ttsVoice
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	N           int           `json:"n"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat sends a system+user prompt pair to the chat completions
// endpoint and returns the cleaned completion text.
func (c *Client) Chat(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.textModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		N:           1,
	})
	if err != nil {
		return "", err
	}

	resp, err := c.post(ctx, "/chat/completions", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode completion response, %w", err)
	}

	if out.Error != nil {
		return "", fmt.Errorf("completion request failed, %s", out.Error.Message)
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion response had no choices")
	}

	return CleanResponse(out.Choices[0].Message.Content), nil
}

// Speech synthesizes text into an mpeg audio stream. The caller
// streams the body to the client and closes it.
func (c *Client) Speech(ctx context.Context, text, voice string) (io.ReadCloser, error) {
	if voice == "" {
		voice = c.ttsVoice
	}

	body, err := json.Marshal(map[string]string{
		"model": c.ttsModel,
		"voice": voice,
		"input": text,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, "/audio/speech", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("speech request failed with status %d, %s", resp.StatusCode, raw)
	}

	return resp.Body, nil
}

// Transcribe sends an audio file to the transcription endpoint and
// returns the recognized text. Used by the upload pipeline for audio
// files.
func (c *Client) Transcribe(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(fw, r); err != nil {
		return "", err
	}

	if err := mw.WriteField("model", c.transcribeModel); err != nil {
		return "", err
	}

	if err := mw.Close(); err != nil {
		return "", err
	}

	resp, err := c.post(ctx, "/audio/transcriptions", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Text  string `json:"text"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode transcription response, %w", err)
	}

	if out.Error != nil {
		return "", fmt.Errorf("transcription request failed, %s", out.Error.Message)
	}

	return out.Text, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed, %w", path, err)
	}

	return resp, nil
}
