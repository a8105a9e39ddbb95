package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gironomall-backend/application/ports"
	"gironomall-backend/application/services"
	"gironomall-backend/infrastructure/di"
	"gironomall-backend/infrastructure/messaging"
	"gironomall-backend/infrastructure/persistence/memory"
)

// stubLLM satisfies ports.LLMClient for flows the tests do not exercise.
type stubLLM struct{}

func (s *stubLLM) GenerateInitialTree(ctx context.Context, theme, description string) (*ports.InitialTreeResult, error) {
	return &ports.InitialTreeResult{
		Guidelines: []string{"a", "b", "c", "d", "e"},
		Tree:       []ports.ProposedNode{{Type: "heading", Title: "Scope"}},
	}, nil
}

func (s *stubLLM) GenerateFollowups(ctx context.Context, in ports.FollowupContext) ([]ports.FollowupProposal, error) {
	return nil, nil
}

func (s *stubLLM) ReconstructAnswer(ctx context.Context, question, answer string) (string, error) {
	return "condensed", nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	workspaces := memory.NewWorkspaceRepository()
	nodes := memory.NewNodeRepository()
	publisher := messaging.NewNoopPublisher(logger)

	commandBus, err := di.ProvideCommandBus(workspaces, nodes, publisher, logger)
	require.NoError(t, err)
	queryBus, err := di.ProvideQueryBus(workspaces, nodes)
	require.NoError(t, err)

	generation := services.NewGenerationService(
		workspaces, nodes, &stubLLM{}, publisher, services.NewInflightGuard(), logger)

	router := NewRouter(commandBus, queryBus, generation, nil, false, logger)
	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)
	return server
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, method, url string, body []byte) (*http.Response, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp, env
}

func TestWorkspaceLifecycle(t *testing.T) {
	server := newTestServer(t)
	base := server.URL + "/api/v1"

	resp, env := doJSON(t, http.MethodPost, base+"/workspaces",
		[]byte(`{"theme":"Launch plan","description":"Q3"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)
	workspaceID, _ := env.Data["id"].(string)
	require.NotEmpty(t, workspaceID)
	assert.Equal(t, "Launch plan", env.Data["theme"])

	resp, _ = doJSON(t, http.MethodGet, base+"/workspaces/"+workspaceID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = doJSON(t, http.MethodPost, base+"/workspaces/"+workspaceID+"/nodes",
		[]byte(`{"type":"heading","title":"Scope"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	nodeID, _ := env.Data["id"].(string)
	require.NotEmpty(t, nodeID)

	resp, env = doJSON(t, http.MethodGet, base+"/workspaces/"+workspaceID+"/tree", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	roots, _ := env.Data["roots"].([]interface{})
	require.Len(t, roots, 1)

	resp, env = doJSON(t, http.MethodGet, base+"/workspaces/"+workspaceID+"/markdown", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, env.Data["markdown"], "# Launch plan")

	resp, _ = doJSON(t, http.MethodDelete, base+"/nodes/"+nodeID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, base+"/workspaces/"+workspaceID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = doJSON(t, http.MethodGet, base+"/workspaces/"+workspaceID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestExportImportRoundTrip(t *testing.T) {
	server := newTestServer(t)
	base := server.URL + "/api/v1"

	_, env := doJSON(t, http.MethodPost, base+"/workspaces", []byte(`{"theme":"Retro"}`))
	workspaceID, _ := env.Data["id"].(string)
	require.NotEmpty(t, workspaceID)

	resp, _ := doJSON(t, http.MethodPost, base+"/workspaces/"+workspaceID+"/nodes",
		[]byte(`{"type":"note","text":"standups ran long"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	exportResp, err := http.Get(base + "/workspaces/" + workspaceID + "/export")
	require.NoError(t, err)
	defer exportResp.Body.Close()
	require.Equal(t, http.StatusOK, exportResp.StatusCode)
	assert.Contains(t, exportResp.Header.Get("Content-Disposition"), "attachment")

	document, err := io.ReadAll(exportResp.Body)
	require.NoError(t, err)

	resp, env = doJSON(t, http.MethodPost, base+"/workspaces/import", document)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	importedID, _ := env.Data["id"].(string)
	require.NotEmpty(t, importedID)
	assert.NotEqual(t, workspaceID, importedID)
	assert.Equal(t, "Retro", env.Data["theme"])

	resp, env = doJSON(t, http.MethodGet, base+"/workspaces/"+importedID+"/tree", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.Data["roots"], 1)
}

func TestReorderEndpoint(t *testing.T) {
	server := newTestServer(t)
	base := server.URL + "/api/v1"

	_, env := doJSON(t, http.MethodPost, base+"/workspaces", []byte(`{"theme":"T"}`))
	workspaceID, _ := env.Data["id"].(string)
	require.NotEmpty(t, workspaceID)

	var ids []string
	for _, title := range []string{"A", "B"} {
		_, env := doJSON(t, http.MethodPost, base+"/workspaces/"+workspaceID+"/nodes",
			[]byte(`{"type":"heading","title":"`+title+`"}`))
		id, _ := env.Data["id"].(string)
		require.NotEmpty(t, id)
		ids = append(ids, id)
	}

	body, err := json.Marshal(map[string]interface{}{
		"orderedIds": []string{ids[1], ids[0]},
	})
	require.NoError(t, err)
	resp, _ := doJSON(t, http.MethodPost, base+"/workspaces/"+workspaceID+"/reorder", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, env = doJSON(t, http.MethodGet, base+"/workspaces/"+workspaceID+"/tree", nil)
	roots, _ := env.Data["roots"].([]interface{})
	require.Len(t, roots, 2)
	first, _ := roots[0].(map[string]interface{})
	assert.Equal(t, "B", first["title"])
}

func TestValidationErrors(t *testing.T) {
	server := newTestServer(t)
	base := server.URL + "/api/v1"

	t.Run("workspace without a theme", func(t *testing.T) {
		resp, env := doJSON(t, http.MethodPost, base+"/workspaces", []byte(`{"description":"no theme"}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION", env.Error.Code)
	})

	t.Run("import with a wrong version", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, base+"/workspaces/import", []byte(`{"version":99}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, base+"/workspaces", []byte(`{`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
