package port

import (
	"context"
	"io"
)

// ImageStore hosts profile pictures and returns their public URL.
type ImageStore interface {
	UploadProfileImage(ctx context.Context, accountID string, file io.Reader) (string, error)
}
