package files

import (
	"errors"
	"time"
)

// StoredFile is the durable metadata record for an accepted upload.
// Filename is the generated storage name; it is unique for the lifetime
// of the storage area and never reused or overwritten.
type StoredFile struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	FileSize         int64     `json:"file_size"`
	FilePath         string    `json:"file_path"`
	ClientIP         string    `json:"client_ip"`
	CreatedAt        time.Time `json:"created_at"`
}

// PublicView returns the representation exposed in API responses.
func (f *StoredFile) PublicView() map[string]interface{} {
	return map[string]interface{}{
		"id":                f.ID,
		"user_id":           f.UserID,
		"filename":          f.Filename,
		"original_filename": f.OriginalFilename,
		"content_type":      f.ContentType,
		"file_size":         f.FileSize,
		"file_path":         f.FilePath,
		"created_at":        f.CreatedAt,
	}
}

// Repository defines the interface for stored file metadata access
type Repository interface {
	CreateStoredFile(file *StoredFile) (*StoredFile, error)
	GetStoredFileByID(id int64) (*StoredFile, bool)
	GetStoredFilesByUserID(userID int64) ([]*StoredFile, error)
}

// DefaultMaxFileSize caps a single upload at 8 megabytes
const DefaultMaxFileSize = 8 * 1024 * 1024

// Errors
var (
	ErrNoFileUploaded = errors.New("No file provided")
	ErrFileTooLarge   = errors.New("file size exceeds 8MB limit")
)
