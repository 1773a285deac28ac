package service

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/infrastructure/aws/storage"
	"alumninet/cmd/internal/utils"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// uploadAvatar checks and uploads a profile picture, returning its object key.
// Keys are random so a replaced picture is never served from a stale cache.
func uploadAvatar(ctx context.Context, s3 storage.S3Client, ownerID string, fileHeader *multipart.FileHeader) (string, apierror.ErrorResponse) {
	ext, apierr := checkAvatarFile(fileHeader)
	if apierr != nil {
		return "", apierr
	}

	data, apierr := readUpload(fileHeader)
	if apierr != nil {
		return "", apierr
	}

	key := storage.AvatarPath + ownerID + "/" + uuid.NewString() + ext
	if _, err := s3.UploadFile(ctx, data, key); err != nil {
		log.Errorf("failed to upload avatar of %s: %v", ownerID, err)
		return "", apierror.InternalServerError
	}
	return key, nil
}

func checkAvatarFile(fileHeader *multipart.FileHeader) (string, apierror.ErrorResponse) {
	if fileHeader.Size > contract.MaxAvatarSizeBytes {
		return "", apierror.NewFileTooLargeError(contract.MaxAvatarSizeBytes)
	}

	if strings.TrimSpace(fileHeader.Filename) == "" {
		return "", apierror.MissingFileNameError
	}

	ext, ok := utils.CheckFileExt(fileHeader.Filename, contract.ValidAvatarFileTypes)
	if !ok {
		return "", apierror.NewInvalidFileExtError(ext)
	}
	return ext, nil
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open file: %v", err)
		return nil, apierror.InternalServerError
	}
	defer file.Close()

	// The header size comes from the client, so the read is capped too
	data, err := io.ReadAll(io.LimitReader(file, contract.MaxAvatarSizeBytes+1))
	if err != nil {
		log.Errorf("failed to read file: %v", err)
		return nil, apierror.InternalServerError
	}

	if len(data) > contract.MaxAvatarSizeBytes {
		return nil, apierror.NewFileTooLargeError(contract.MaxAvatarSizeBytes)
	}
	return data, nil
}

// deleteBucketObject deletes the object with the given key.
//
// It is idempotent: it returns nil if the object does not exist.
// This prevents errors when the database and S3 bucket are out of sync.
func deleteBucketObject(ctx context.Context, bucket storage.S3Client, key string) error {
	if key == "" {
		return nil
	}

	err := bucket.DeleteFile(ctx, key)

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil
	}
	return err
}
