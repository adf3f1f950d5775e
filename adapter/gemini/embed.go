package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/embed"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

func buildEmbedRequest(target chat.ServiceTarget, req embed.EmbedRequest) (webtransport.RequestData, error) {
	texts := req.Input.AsTexts()
	if len(texts) == 0 {
		return webtransport.RequestData{}, gaierr.ErrChatReqHasNoMessages
	}

	parts := make([]map[string]any, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, map[string]any{"content": map[string]any{"parts": []map[string]any{{"text": t}}}})
	}
	body := map[string]any{"requests": parts}
	if req.Options.Dimensions != nil {
		for _, r := range parts {
			r["outputDimensionality"] = *req.Options.Dimensions
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return webtransport.RequestData{}, fmt.Errorf("gemini: marshal embed request: %w", err)
	}
	return webtransport.RequestData{
		Method:  "POST",
		URL:     requestURL(target, "batchEmbedContents"),
		Headers: authHeaders(target.Auth),
		Body:    payload,
	}, nil
}

func parseEmbedResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (embed.EmbedResponse, error) {
	parsed := gjson.ParseBytes(resp.Body)
	embeddingsJSON := parsed.Get("embeddings")
	if !embeddingsJSON.Exists() {
		return embed.EmbedResponse{}, &gaierr.ErrInvalidJsonResponseElement{Element: "embeddings"}
	}

	embeddings := make([]embed.Embedding, 0)
	for i, e := range embeddingsJSON.Array() {
		values := e.Get("values").Array()
		vec := make([]float64, 0, len(values))
		for _, v := range values {
			vec = append(vec, v.Float())
		}
		embeddings = append(embeddings, embed.Embedding{Index: i, Vector: vec})
	}

	out := embed.EmbedResponse{
		Embeddings:        embeddings,
		ModelIden:         target.Model,
		ProviderModelIden: target.Model,
	}
	if captureRawBody {
		out.CapturedRawBody = resp.Body
	}
	return out, nil
}
