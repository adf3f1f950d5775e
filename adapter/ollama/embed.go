package ollama

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

	var input any = texts
	if len(texts) == 1 {
		input = texts[0]
	}
	body := map[string]any{
		"model": string(target.Model.ModelName),
		"input": input,
	}
	if req.Options.Truncate == "end" || req.Options.Truncate == "" {
		body["truncate"] = true
	} else if req.Options.Truncate == "none" {
		body["truncate"] = false
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return webtransport.RequestData{}, fmt.Errorf("ollama: marshal embed request: %w", err)
	}
	return webtransport.RequestData{
		Method:  "POST",
		URL:     requestURL(target, "/api/embed"),
		Headers: authHeaders(target.Auth),
		Body:    payload,
	}, nil
}

func parseEmbedResponse(target chat.ServiceTarget, resp webtransport.Response, captureRawBody bool) (embed.EmbedResponse, error) {
	parsed := gjson.ParseBytes(resp.Body)
	vectors := parsed.Get("embeddings")
	if !vectors.Exists() {
		return embed.EmbedResponse{}, &gaierr.ErrInvalidJsonResponseElement{Element: "embeddings"}
	}

	embeddings := make([]embed.Embedding, 0)
	for i, e := range vectors.Array() {
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
		ProviderModelIden: chat.ModelIden{AdapterKind: chat.AdapterOllama, ModelName: chat.ModelName(parsed.Get("model").String())},
	}
	if promptCount := parsed.Get("prompt_eval_count"); promptCount.Exists() && promptCount.Int() != 0 {
		out.Usage = chat.Usage{PromptTokens: int(promptCount.Int()), TotalTokens: int(promptCount.Int())}
	}
	if captureRawBody {
		out.CapturedRawBody = resp.Body
	}
	return out, nil
}
