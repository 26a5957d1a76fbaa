package llm

import "time"

// NewOpenAI talks to api.openai.com or any server mirroring it.
func NewOpenAI(baseURL, apiKey string, sampling Sampling, timeout time.Duration) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		Sampling:   sampling,
		Timeout:    timeout,
	})
}

// NewXAI uses xAI's OpenAI-compatible chat endpoint.
func NewXAI(baseURL, apiKey string, sampling Sampling, timeout time.Duration) *OpenAICompatible {
	return NewOpenAI(baseURL, apiKey, sampling, timeout)
}

// NewGoogle uses the Gemini OpenAI compatibility layer, which lives under
// /v1beta/openai rather than /v1.
func NewGoogle(baseURL, apiKey string, sampling Sampling, timeout time.Duration) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		ChatPath:   "/chat/completions",
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		Sampling:   sampling,
		Timeout:    timeout,
	})
}
