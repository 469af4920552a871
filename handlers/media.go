package handlers

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Blob storage folders. Post media is namespaced per author, profile photos
// per user, matching the public URL layout.
const (
	blogImageFolder    = "blog-images"
	blogAudioFolder    = "blog-audio"
	profileImageFolder = "profile-images"
)

func blobClient() (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
}

// uploadBlob stores a file under folder/owner with a timestamped name and
// returns the serving URL plus the public id needed to delete it later.
func uploadBlob(ctx context.Context, file multipart.File, folder, owner, filename string) (string, string, error) {
	cld, err := blobClient()
	if err != nil {
		return "", "", err
	}

	publicID := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), path.Base(filename))
	result, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder + "/" + owner,
		PublicID: publicID,
	})
	if err != nil {
		return "", "", err
	}

	return result.SecureURL, result.PublicID, nil
}

// deleteBlob removes a stored file. Cleanup is best effort: failures are
// logged and the primary operation proceeds with an orphaned blob.
func deleteBlob(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}

	cld, err := blobClient()
	if err != nil {
		log.Printf("[deleteBlob] Storage configuration error: %v", err)
		return
	}

	if _, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		log.Printf("[deleteBlob] Failed to delete blob %s: %v", publicID, err)
	}
}
