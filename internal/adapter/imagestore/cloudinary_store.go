package imagestore

import (
	"context"
	"fmt"
	"io"

	"quiz-hub/internal/config"
	"quiz-hub/internal/port"
	"quiz-hub/internal/util"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// profileTransformation bounds uploaded pictures to 400x400 without cropping.
const profileTransformation = "c_limit,h_400,w_400"

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryImageStore hosts profile pictures on Cloudinary.
type CloudinaryImageStore struct {
	uploads uploadAPI
	folder  string
}

func NewCloudinaryImageStore(cfg config.CloudinaryConfig) (port.ImageStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return newCloudinaryImageStore(&cld.Upload, cfg.Folder), nil
}

func newCloudinaryImageStore(uploads uploadAPI, folder string) *CloudinaryImageStore {
	return &CloudinaryImageStore{uploads: uploads, folder: folder}
}

func (s *CloudinaryImageStore) UploadProfileImage(ctx context.Context, accountID string, file io.Reader) (string, error) {
	overwrite := true
	result, err := s.uploads.Upload(ctx, file, uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       fmt.Sprintf("%s-%s", accountID, util.NewULID()),
		Transformation: profileTransformation,
		Overwrite:      &overwrite,
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload rejected: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload returned no secure url")
	}
	return result.SecureURL, nil
}
