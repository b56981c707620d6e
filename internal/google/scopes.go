package google

import (
	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	slides "google.golang.org/api/slides/v1"
)

// DefaultOAuthScopes are the Google OAuth scopes docsmith requests.
//
// The scopes provide access to:
//   - Google Docs: read and write documents
//   - Google Slides: create and edit presentations
//   - Google Drive: file metadata and moving created files into folders
var DefaultOAuthScopes = []string{
	docs.DocumentsScope,
	slides.PresentationsScope,
	drive.DriveScope,
}
