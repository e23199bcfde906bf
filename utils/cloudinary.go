package utils

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/medbook/medbook-server/config"
)

// UploadToCloudinary uploads a file to Cloudinary and returns the secure URL.
func UploadToCloudinary(cfg config.CloudinaryConfig, file interface{}, publicID string, folder string) (string, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return "", err
	}

	ctx := context.Background()
	resp, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		Transformation: "c_thumb,w_200,h_200", // portraits are served as thumbnails
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
