package services

import (
	"net/url"
	"strings"

	"educycle-api/internal/config"
	"educycle-api/internal/core/domain"

	"github.com/cloudinary/cloudinary-go/v2/api"
)

// UploadService signs direct-to-Cloudinary image uploads
type UploadService struct {
	cfg *config.Config
}

// NewUploadService creates a new upload service
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// UploadSignature is handed to the browser together with the timestamp it signs
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp string `json:"timestamp"`
}

// Sign produces the Cloudinary API signature for an upload at timestamp
func (s *UploadService) Sign(timestamp string) (*UploadSignature, error) {
	timestamp = strings.TrimSpace(timestamp)
	if timestamp == "" {
		return nil, domain.ErrTimestampRequired
	}
	if s.cfg.Upload.CloudinarySecret == "" {
		return nil, domain.ErrUploadNotConfigured
	}

	signature, err := api.SignParameters(url.Values{"timestamp": {timestamp}}, s.cfg.Upload.CloudinarySecret)
	if err != nil {
		return nil, err
	}
	return &UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
	}, nil
}
