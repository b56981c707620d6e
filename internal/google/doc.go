// Package google provides OAuth2 authentication and HTTP transport for Google APIs.
//
// Tokens are stored as JSON files, one per account, and refreshed through the
// OAuth client configuration loaded from a credentials file. Requests go
// through a retrying HTTP client so that rate limiting and transient server
// errors from the Docs, Slides and Drive APIs are absorbed before they reach
// callers.
//
// The TokenProvider interface allows different token sources to be plugged in.
package google
