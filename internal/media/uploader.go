package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"agrimarket/internal/logger"

	"go.uber.org/zap"
)

const cloudinaryBaseURL = "https://api.cloudinary.com/v1_1"

var (
	ErrUploadFailed  = errors.New("upload failed")
	ErrNotConfigured = errors.New("media uploader is not configured")
	ErrEmptyFile     = errors.New("file is empty")
)

// File is an in-memory upload.
type File struct {
	Name string
	Data []byte
}

// Uploader stores a file with an external host and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
}

type cloudinaryUploader struct {
	cloudName    string
	uploadPreset string
	baseURL      string
	httpClient   *http.Client
}

// ----------------- Constructor -----------------

func NewCloudinaryUploader(cloudName, uploadPreset string) Uploader {
	if cloudName == "" || uploadPreset == "" {
		logger.L().Warn("cloudinary cloud name or upload preset is empty")
	}
	return &cloudinaryUploader{
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		baseURL:      cloudinaryBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ----------------- Upload -----------------

func (c *cloudinaryUploader) Upload(ctx context.Context, f File) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "media"),
		zap.String("file", f.Name),
		zap.Int("size", len(f.Data)),
	)

	if c.cloudName == "" || c.uploadPreset == "" {
		return "", ErrNotConfigured
	}
	if len(f.Data) == 0 {
		return "", fmt.Errorf("%s: %w", f.Name, ErrEmptyFile)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", f.Name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", err
	}
	if err := mw.WriteField("upload_preset", c.uploadPreset); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/auto/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	log.Info("uploading file")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("upload request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUploadFailed, err)
	}

	var res struct {
		SecureURL string `json:"secure_url"`
		Error     *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(respBody, &res)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "Cloudinary upload failed."
		if res.Error != nil && res.Error.Message != "" {
			msg = res.Error.Message
		}
		log.Error("cloudinary returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", respBody),
		)
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, msg)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("%w: response has no secure_url", ErrUploadFailed)
	}

	log.Info("file uploaded", zap.String("url", res.SecureURL))
	return res.SecureURL, nil
}

// Reason returns the user-facing part of an upload error.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), ErrUploadFailed.Error()+": ")
}
