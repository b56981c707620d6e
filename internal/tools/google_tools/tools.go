package google_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/docsmith/internal/google"
	"github.com/teemow/docsmith/internal/server"
	"github.com/teemow/docsmith/internal/tools/common"
)

var errNoOAuthClient = errors.New("No OAuth client credentials configured: download them from the Google Cloud console and set google.credentialsFile")

// RegisterGoogleTools registers the tools that authorize Google accounts.
func RegisterGoogleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getAuthURLTool := mcp.NewTool("google_get_auth_url",
		mcp.WithDescription("Get the OAuth URL that authorizes docsmith to access Google Docs, Slides and Drive for an account"),
		mcp.WithString("account",
			mcp.Description(common.AccountDescription),
		),
	)
	s.AddTool(getAuthURLTool, common.InstrumentedToolHandler("google_get_auth_url", "", "", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAuthURL(ctx, request, sc)
		}))

	saveAuthCodeTool := mcp.NewTool("google_save_auth_code",
		mcp.WithDescription("Save the OAuth authorization code to complete the authorization of an account"),
		mcp.WithString("authCode",
			mcp.Required(),
			mcp.Description("The authorization code from Google OAuth"),
		),
		mcp.WithString("account",
			mcp.Description(common.AccountDescription),
		),
	)
	s.AddTool(saveAuthCodeTool, common.InstrumentedToolHandler("google_save_auth_code", "", "", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSaveAuthCode(ctx, request, sc)
		}))

	return nil
}

func handleGetAuthURL(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	account := common.GetAccountFromArgs(sc, request.GetArguments())

	conf := sc.OAuthConfig()
	if conf == nil {
		return common.ErrorResult(errNoOAuthClient), nil
	}

	result := fmt.Sprintf(`To authorize Google Docs, Slides and Drive access for account "%s":

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google services
4. Copy the authorization code

5. Call the google_save_auth_code tool with the code and account name to complete authentication`, account, google.GetAuthURL(conf, "state-token"))

	return mcp.NewToolResultText(result), nil
}

func handleSaveAuthCode(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(sc, args)

	authCode := common.StringArg(args, "authCode", "")
	if authCode == "" {
		return common.ErrorResult(errors.New("authCode is required")), nil
	}

	conf := sc.OAuthConfig()
	if conf == nil {
		return common.ErrorResult(errNoOAuthClient), nil
	}

	if err := google.SaveToken(ctx, conf, sc.TokenDir(), account, authCode); err != nil {
		return common.ErrorResult(fmt.Errorf("Failed to save authorization code for account %s: %w", account, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Authorization successful for account '%s'. You can now use the Google Docs and Slides tools with this account.", account)), nil
}
