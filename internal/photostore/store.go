// Package photostore keeps the photos farmers submit as mission proof and
// hands back the URL recorded on their progress.
package photostore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Store saves a local photo file and returns a URL that refers to it.
type Store interface {
	Save(ctx context.Context, userID, missionID, srcPath string) (string, error)
}

var allowedExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
}

// contentType validates the photo extension and returns its MIME type.
func contentType(srcPath string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(srcPath))
	ct, ok := allowedExt[ext]
	if !ok {
		return "", "", fmt.Errorf("unsupported photo type %q (want jpg, png, webp or heic)", ext)
	}
	return ext, ct, nil
}

// objectKey is the storage-relative path for one proof photo.
func objectKey(userID, missionID, ext string, now time.Time) string {
	return fmt.Sprintf("proofs/%s/%s-%d%s", userID, missionID, now.UnixMilli(), ext)
}
