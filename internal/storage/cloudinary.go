package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
)

// DefaultCloudinaryEndpoint is the Cloudinary upload API root.
const DefaultCloudinaryEndpoint = "https://api.cloudinary.com/v1_1"

// Uploader stores one image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// Cloudinary uploads images through an unsigned upload preset.
type Cloudinary struct {
	Endpoint  string
	CloudName string
	Preset    string
	Timeout   time.Duration
}

// NewCloudinary returns an uploader for cloudName using preset.
// Missing credentials are reported on first upload.
func NewCloudinary(cloudName, preset string) *Cloudinary {
	return &Cloudinary{
		Endpoint:  DefaultCloudinaryEndpoint,
		CloudName: cloudName,
		Preset:    preset,
		Timeout:   30 * time.Second,
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts data as the "file" form field and returns the secure URL.
func (c *Cloudinary) Upload(ctx context.Context, name string, data []byte) (string, error) {
	if c.CloudName == "" || c.Preset == "" {
		return "", errors.New("cloudinary is not configured")
	}

	url := fmt.Sprintf("%s/%s/image/upload", strings.TrimRight(c.Endpoint, "/"), c.CloudName)
	var (
		resp cloudinaryResponse
		code int
	)
	err := gout.POST(url).
		WithContext(ctx).
		SetTimeout(c.Timeout).
		SetForm(gout.H{
			"upload_preset": c.Preset,
			"file":          gout.FormMem(data),
		}).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if code != http.StatusOK || resp.SecureURL == "" {
		msg := resp.Error.Message
		if msg == "" {
			msg = http.StatusText(code)
		}
		return "", fmt.Errorf("upload %s: %s", name, msg)
	}
	return resp.SecureURL, nil
}
