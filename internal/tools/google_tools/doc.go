// Package google_tools provides the MCP tools that authorize Google accounts:
// google_get_auth_url returns the consent URL and google_save_auth_code
// stores the token for the authorization code the user copied.
package google_tools
