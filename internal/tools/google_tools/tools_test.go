package google_tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/teemow/docsmith/internal/google"
	"github.com/teemow/docsmith/internal/server"
)

func newTestContext(t *testing.T, conf *oauth2.Config, tokenDir string) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		TokenProvider: google.StaticTokenProvider{},
		OAuthConfig:   conf,
		TokenDir:      tokenDir,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestHandleGetAuthURL(t *testing.T) {
	conf := &oauth2.Config{
		ClientID: "client-123",
		Endpoint: oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth"},
	}
	sc := newTestContext(t, conf, t.TempDir())

	result, err := handleGetAuthURL(context.Background(), call(map[string]any{"account": "work"}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := text(t, result)
	assert.Contains(t, out, `account "work"`)
	assert.Contains(t, out, "https://accounts.example.com/auth?")
	assert.Contains(t, out, "client_id=client-123")
	assert.Contains(t, out, "access_type=offline")
}

func TestHandleGetAuthURLWithoutCredentials(t *testing.T) {
	sc := newTestContext(t, nil, "")

	result, err := handleGetAuthURL(context.Background(), call(nil), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "No OAuth client credentials configured")
}

func TestHandleSaveAuthCode(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access","refresh_token":"refresh","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenServer.Close()

	dir := t.TempDir()
	conf := &oauth2.Config{
		ClientID: "client-123",
		Endpoint: oauth2.Endpoint{TokenURL: tokenServer.URL},
	}
	sc := newTestContext(t, conf, dir)

	result, err := handleSaveAuthCode(context.Background(), call(map[string]any{
		"authCode": "code",
		"account":  "work",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, text(t, result))
	assert.Contains(t, text(t, result), "Authorization successful for account 'work'")

	_, err = os.Stat(filepath.Join(dir, "google-work.token"))
	assert.NoError(t, err)
	assert.True(t, google.NewFileTokenProvider(dir, conf).HasTokenForAccount("work"))
}

func TestHandleSaveAuthCodeValidation(t *testing.T) {
	sc := newTestContext(t, &oauth2.Config{}, t.TempDir())

	result, err := handleSaveAuthCode(context.Background(), call(map[string]any{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "authCode is required")

	result, err = handleSaveAuthCode(context.Background(), call(map[string]any{"authCode": "c", "account": "../etc"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "invalid account name")
}
