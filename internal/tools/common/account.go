package common

import (
	"github.com/teemow/docsmith/internal/server"
)

// AccountDescription documents the account argument every Google tool
// accepts.
const AccountDescription = "Account name (default: the configured default account). Used to manage multiple Google accounts."

// GetAccountFromArgs returns the "account" argument, or the server's
// default account when it is missing or not a non-empty string.
func GetAccountFromArgs(sc *server.ServerContext, args map[string]any) string {
	account, _ := args["account"].(string)
	return sc.ResolveAccount(account)
}
