package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// getGoogleClient initializes a Google Cloud Storage client
func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	// Prefer ADC (Cloud Run service account / GOOGLE_APPLICATION_CREDENTIALS).
	// If you need to provide explicit JSON (e.g. locally), set GCS_CREDENTIALS_JSON.
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		client, err := storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GetGCSClient exposes the shared Google Cloud Storage client.
func GetGCSClient(ctx context.Context) (*storage.Client, error) {
	return getGoogleClient(ctx)
}

// UploadVoiceNoteToGCS stores a recorded voice note and returns its public URL.
// Intervention reports attach these; only audio formats are accepted.
func UploadVoiceNoteToGCS(ctx context.Context, objectName string, fileContent io.Reader) (string, error) {
	fileData, err := io.ReadAll(fileContent)
	if err != nil {
		return "", fmt.Errorf("failed to read file content: %v", err)
	}

	mimeType := http.DetectContentType(fileData)

	// DetectContentType cannot tell webm audio from webm video.
	if mimeType == "video/webm" || mimeType == "application/octet-stream" {
		if strings.HasSuffix(objectName, ".webm") {
			mimeType = "audio/webm"
		} else if strings.HasSuffix(objectName, ".ogg") {
			mimeType = "audio/ogg"
		} else if strings.HasSuffix(objectName, ".m4a") {
			mimeType = "audio/mp4"
		}
	}

	allowedMimeTypes := map[string]bool{
		"audio/webm": true,
		"audio/ogg":  true,
		"audio/mpeg": true,
		"audio/mp4":  true,
		"audio/wave": true,
		"audio/wav":  true,
	}

	if !allowedMimeTypes[mimeType] {
		return "", fmt.Errorf("unsupported file type: %s", mimeType)
	}

	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		return "", fmt.Errorf("GCS_BUCKET is required")
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrorNetwork, err)
	}
	defer client.Close()

	if _, err := client.Bucket(bucketName).Attrs(ctx); err != nil {
		return "", fmt.Errorf("%w: gcs bucket %q not found or not accessible: %v", ErrorRemoteRejected, bucketName, err)
	}

	wc := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = mimeType

	if _, err = wc.Write(fileData); err != nil {
		return "", fmt.Errorf("%w: %v", ErrorNetwork, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrorRemoteRejected, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName), nil
}
