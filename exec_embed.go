package genai

import (
	"context"

	"github.com/flowline-ai/genai/adapter"
	"github.com/flowline-ai/genai/embed"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

// ExecEmbed resolves model, dispatches to the matching adapter, and
// performs a single embedding call. Adapters that don't support
// embeddings (Bedrock's Converse API, among others) return
// *gaierr.ErrAdapterNotSupported from BuildEmbedRequest.
func (c *Client) ExecEmbed(ctx context.Context, model ModelRef, req embed.EmbedRequest) (embed.EmbedResponse, error) {
	target, err := c.resolver.Resolve(model)
	if err != nil {
		return embed.EmbedResponse{}, err
	}

	a, ok := adapter.Dispatch(target.Model.AdapterKind)
	if !ok {
		return embed.EmbedResponse{}, &gaierr.ErrAdapterNotSupported{Adapter: string(target.Model.AdapterKind), Feature: "embed"}
	}

	opts := c.defaultEmbedOptions.Merge(req.Options)
	req.Options = opts

	reqData, err := a.BuildEmbedRequest(target, req)
	if err != nil {
		return embed.EmbedResponse{}, err
	}
	reqData.Headers = c.stampRequestIDHeader(reqData.Headers)

	c.logger.Debug(ctx, "embed request", "adapter", string(target.Model.AdapterKind), "model", string(target.Model.ModelName))

	resp, err := webtransport.Do(ctx, c.httpClient, reqData)
	if err != nil {
		return embed.EmbedResponse{}, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return embed.EmbedResponse{}, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: map[string][]string(resp.Headers)}
	}

	return a.ParseEmbedResponse(target, resp, opts.CaptureRawBody)
}
