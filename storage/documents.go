package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Property documents (7/12 extracts, survey records, sale deeds) are
// private files, so they go to a bucket instead of the public image CDN.
// MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, MINIO_BUCKET,
// MINIO_USE_SSL configure the client.

var Documents *minio.Client

var documentsBucket string

func InitializeDocumentStore() {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		utils.Logger.Warn().Msg("MINIO_ENDPOINT not set, document uploads disabled")
		return
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: os.Getenv("MINIO_USE_SSL") == "true",
	})
	if err != nil {
		utils.Logger.Error().Err(err).Msg("init document store")
		return
	}

	documentsBucket = os.Getenv("MINIO_BUCKET")
	if documentsBucket == "" {
		documentsBucket = "locatex-documents"
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, documentsBucket)
	if err != nil {
		utils.Logger.Error().Err(err).Str("bucket", documentsBucket).Msg("check documents bucket")
		return
	}
	if !exists {
		if err := client.MakeBucket(ctx, documentsBucket, minio.MakeBucketOptions{}); err != nil {
			utils.Logger.Error().Err(err).Str("bucket", documentsBucket).Msg("create documents bucket")
			return
		}
	}

	Documents = client
}

// UploadDocument stores a base64-encoded document under a category-scoped
// opaque key and returns the stored object reference, or "" on failure.
func UploadDocument(ctx context.Context, category, base64Src string) string {
	if Documents == nil || base64Src == "" {
		return ""
	}

	payload := base64Src
	contentType := "application/octet-stream"
	if i := strings.Index(base64Src, ","); i != -1 {
		header := base64Src[:i]
		payload = base64Src[i+1:]
		if j := strings.Index(header, ":"); j != -1 {
			if k := strings.Index(header, ";"); k > j {
				contentType = header[j+1 : k]
			}
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		utils.Logger.Error().Err(err).Str("category", category).Msg("decode document payload")
		return ""
	}

	key := fmt.Sprintf("%s/%s", category, uuid.NewString())
	_, err = Documents.PutObject(ctx, documentsBucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		utils.Logger.Error().Err(err).Str("key", key).Msg("upload document")
		return ""
	}

	return key
}

// RemoveDocument deletes a stored document by its object reference.
func RemoveDocument(ctx context.Context, key string) error {
	if Documents == nil {
		return nil
	}
	return Documents.RemoveObject(ctx, documentsBucket, key, minio.RemoveObjectOptions{})
}
