package genai_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	genai "github.com/flowline-ai/genai"
	"github.com/flowline-ai/genai/chat"
)

func TestResolveModelList_FetchesLiveCatalogAndCaches(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		hits++
		w.Write([]byte(`{"models":[{"name":"llama3"},{"name":"mistral"}]}`))
	}))
	defer srv.Close()

	c, err := genai.NewClient()
	require.NoError(t, err)

	target := testTarget(srv.URL)
	models, err := c.ResolveModelList(genai.FromTarget(target))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"llama3", "mistral"}, toStrings(models))

	_, err = c.ResolveModelList(genai.FromTarget(target))
	require.NoError(t, err)
	require.Equal(t, 1, hits, "second call within the TTL should be served from cache")
}

func TestResolveModelList_NonListerAdapterReturnsStaticModels(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	c, err := genai.NewClient()
	require.NoError(t, err)

	models, err := c.ResolveModelList(genai.Bare("gpt-4o"))
	require.NoError(t, err)
	require.NotEmpty(t, models)
}

func toStrings(models []chat.ModelName) []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = string(m)
	}
	return out
}
