package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/munchlog-app/munchlog_api/dto"
	"github.com/munchlog-app/munchlog_api/shared"
)

// MediaService is the thin layer between meal photos and object storage.
type MediaService struct {
	appContext.DefaultService

	minioSvc *MinIOService
}

const MEDIA_SVC = "media_svc"

const (
	maxPhotoSize   = 10 << 20 // 10 MiB
	photoURLExpiry = 24 * time.Hour
)

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Start() error {
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

func (svc *MediaService) UploadMealPhoto(userID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	if file.Size > maxPhotoSize {
		return nil, shared.NewBadRequestError(nil, "Photo exceeds 10MB limit")
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedPhotoTypes[contentType] {
		return nil, shared.NewBadRequestError(nil, "Unsupported photo type")
	}

	src, err := file.Open()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to read upload")
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	id, _ := uuid.NewV7()
	objectKey := fmt.Sprintf("meals/%s/%s%s", userID, id.String(), ext)

	info, err := svc.minioSvc.UploadFile(objectKey, src, file.Size, contentType)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to store photo")
	}

	url, err := svc.minioSvc.GetFileURL(objectKey, photoURLExpiry)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to generate photo URL")
	}

	return &dto.MediaUploadResponse{
		ObjectKey:   objectKey,
		URL:         url,
		Size:        info.Size,
		ContentType: contentType,
	}, nil
}

func (svc *MediaService) GetPhotoURL(objectKey string) (string, error) {
	return svc.minioSvc.GetFileURL(objectKey, photoURLExpiry)
}

func (svc *MediaService) DeletePhoto(objectKey string) error {
	return svc.minioSvc.DeleteFile(objectKey)
}
