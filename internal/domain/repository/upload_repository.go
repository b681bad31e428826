package repository

import "context"

// UploadRepository publishes a finished report file.
type UploadRepository interface {
	// Upload copies the local file to the destination URI and returns its final location.
	Upload(ctx context.Context, localPath, destURI string) (string, error)
}
