// Package genai is a single Go client for chat completion and embedding
// across OpenAI, Anthropic, Gemini, Cohere, Ollama, Bedrock, xAI,
// DeepSeek, Groq, Together, Fireworks, Z.AI, Zhipu, Nebius, Mimo, and
// OpenRouter.
//
// A Client resolves a caller-supplied model reference to a
// chat.ServiceTarget (package resolver), dispatches to the matching
// adapter (package adapter and its sub-packages), and drives the HTTP
// call through package webtransport. ExecChat and ExecEmbed are unary;
// ExecChatStream returns a chat.ChatStream for incremental consumption.
//
//	client, err := genai.NewClient()
//	resp, err := client.ExecChat(ctx, genai.Bare("gpt-4o"), chat.ChatRequest{
//		Messages: []chat.ChatMessage{chat.NewTextMessage(chat.RoleUser, "hello")},
//	})
package genai
