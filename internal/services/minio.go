package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"swadisht_back_end/internal/database"
)

// UploadProductImage envoie une image produit dans le bucket MinIO et
// retourne son chemin objet
func UploadProductImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := fmt.Sprintf("products/%d_%s", time.Now().UnixMilli(), file.Filename)

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return objectName, nil
}

// GenerateSignedURL génère une URL signée avec expiration pour un objet image.
// Accepte aussi bien un chemin objet qu'une URL complète historique.
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	bucket := os.Getenv("MINIO_BUCKET")

	// Nettoie l'URL complète pour ne garder que le chemin relatif au bucket
	key := objectPath
	if strings.Contains(key, "/"+bucket+"/") {
		parts := strings.SplitN(key, "/"+bucket+"/", 2)
		key = parts[1]
	}

	reqParams := make(url.Values)
	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, duration, reqParams)
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}

// SignImageURLs retourne les URLs signées d'une liste d'images produit.
// Les objets illisibles sont simplement omis.
func SignImageURLs(ctx context.Context, objectPaths []string) []string {
	signed := []string{}
	for _, p := range objectPaths {
		if p == "" {
			continue
		}
		u, err := GenerateSignedURL(ctx, p, 24*time.Hour)
		if err != nil {
			continue
		}
		signed = append(signed, u)
	}
	return signed
}
