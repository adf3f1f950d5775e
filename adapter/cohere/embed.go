package cohere

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

	inputType := "search_document"
	if req.Options.EmbeddingType != "" {
		inputType = string(req.Options.EmbeddingType)
	}
	body := map[string]any{
		"model":          string(target.Model.ModelName),
		"texts":          texts,
		"input_type":     inputType,
		"embedding_types": []string{"float"},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return webtransport.RequestData{}, fmt.Errorf("cohere: marshal embed request: %w", err)
	}
	return webtransport.RequestData{
		Method:  "POST",
		URL:     requestURL(target, "/embed"),
		Headers: authHeaders(target.Auth),
		Body:    payload,
	}, nil
}

func parseEmbedResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (embed.EmbedResponse, error) {
	parsed := gjson.ParseBytes(resp.Body)
	floats := parsed.Get("embeddings.float")
	if !floats.Exists() {
		return embed.EmbedResponse{}, &gaierr.ErrInvalidJsonResponseElement{Element: "embeddings.float"}
	}

	embeddings := make([]embed.Embedding, 0)
	for i, e := range floats.Array() {
		values := e.Array()
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
		Usage: chat.Usage{
			PromptTokens: int(parsed.Get("meta.billed_units.input_tokens").Int()),
		}.CompactDetails(),
	}
	if captureRawBody {
		out.CapturedRawBody = resp.Body
	}
	return out, nil
}
