package files

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Aesmazing/Boko-Hacks-2025/server/bredis"
	"github.com/Aesmazing/Boko-Hacks-2025/server/logger"
	"github.com/Aesmazing/Boko-Hacks-2025/server/models/auth"
	"github.com/Aesmazing/Boko-Hacks-2025/server/models/user"
	"github.com/Aesmazing/Boko-Hacks-2025/server/response"

	"github.com/labstack/echo/v4"
)

const listCacheTTL = 30 * time.Minute

// Handler runs the upload pipeline and serves the read endpoints.
type Handler struct {
	userRepo    user.Repository
	fileRepo    Repository
	storage     *Storage
	validator   *Validator
	names       *NameGenerator
	metrics     *UploadMetrics
	redis       *bredis.Client
	maxFileSize int64
}

// NewHandler creates a files Handler. redis may be nil; caching is then
// skipped. maxFileSize of 0 falls back to DefaultMaxFileSize.
func NewHandler(userRepo user.Repository, fileRepo Repository, storage *Storage, validator *Validator, metrics *UploadMetrics, redis *bredis.Client, maxFileSize int64) *Handler {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Handler{
		userRepo:    userRepo,
		fileRepo:    fileRepo,
		storage:     storage,
		validator:   validator,
		names:       NewNameGenerator(),
		metrics:     metrics,
		redis:       redis,
		maxFileSize: maxFileSize,
	}
}

func (h *Handler) cacheKey(userID int64) string {
	return fmt.Sprintf("files:%d", userID)
}

// Upload handles POST /apps/files/upload.
//
// The pipeline is: count the request, resolve the principal, check the
// file is present, validate extension then declared MIME type, persist
// the bytes under a generated name, commit the metadata record, then
// respond. Every exit increments exactly one outcome counter and writes
// exactly one audit line.
func (h *Handler) Upload(c echo.Context) error {
	start := time.Now()
	h.metrics.IncrTotal()
	clientIP := c.RealIP()

	claims, ok := c.Get("user").(*auth.TokenClaims)
	if !ok || claims == nil {
		logger.Warnf("Unauthorized upload attempt from %s", clientIP)
		h.metrics.IncrFailed()
		return response.Unauthorized(c, "Not logged in")
	}

	currentUser, exists := h.userRepo.GetUserByUsername(claims.Username)
	if !exists {
		logger.Warnf("Upload attempt by non-existent user: %s from %s", claims.Username, clientIP)
		h.metrics.IncrFailed()
		return response.NotFound(c, "User not found")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil || fileHeader.Size == 0 {
		logger.Warnf("User %s from %s attempted to upload without a file", currentUser.Username, clientIP)
		h.metrics.IncrFailed()
		return response.BadRequest(c, ErrNoFileUploaded.Error())
	}

	if fileHeader.Size > h.maxFileSize {
		logger.Warnf("User %s from %s attempted to upload %d bytes (limit %d)",
			currentUser.Username, clientIP, fileHeader.Size, h.maxFileSize)
		h.metrics.IncrFailed()
		return response.BadRequest(c, ErrFileTooLarge.Error())
	}

	filename := SanitizeFilename(fileHeader.Filename)
	declaredMime := fileHeader.Header.Get(echo.HeaderContentType)

	verdict, ext := h.validator.Validate(filename, declaredMime)
	switch verdict {
	case RejectedExtension:
		logger.Warnf("[FLAGGED] Unauthorized file attempt! User: %s, IP: %s, File: %s",
			currentUser.Username, clientIP, filename)
		h.metrics.IncrUnauthorized()
		return response.BadRequest(c, "File type not allowed. This attempt has been logged.")
	case RejectedMimeType:
		logger.Warnf("[FLAGGED] Unauthorized MIME type! User: %s, IP: %s, MIME: %s",
			currentUser.Username, clientIP, declaredMime)
		h.metrics.IncrUnauthorized()
		return response.BadRequest(c, "Invalid file type detected. This attempt has been logged.")
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Errorf("Upload failed for User %s from %s: %v", currentUser.Username, clientIP, err)
		h.metrics.IncrFailed()
		return response.InternalError(c, "Failed to open uploaded file")
	}
	defer src.Close()

	storageName := h.names.Generate(ext)
	filePath, written, err := h.storage.Save(storageName, src)
	if err != nil {
		logger.Errorf("Upload failed for User %s from %s: %v", currentUser.Username, clientIP, err)
		h.metrics.IncrFailed()
		return response.InternalError(c, err.Error())
	}

	record := &StoredFile{
		UserID:           currentUser.ID,
		Filename:         storageName,
		OriginalFilename: filename,
		ContentType:      declaredMime,
		FileSize:         written,
		FilePath:         filePath,
		ClientIP:         clientIP,
	}

	saved, err := h.fileRepo.CreateStoredFile(record)
	if err != nil {
		// Bytes without a metadata row are orphans; remove best-effort.
		_ = h.storage.Remove(filePath)
		logger.Errorf("Upload failed for User %s from %s: %v", currentUser.Username, clientIP, err)
		h.metrics.IncrFailed()
		return response.InternalError(c, "Failed to save file metadata")
	}

	if h.redis != nil {
		_ = h.redis.Delete(h.cacheKey(currentUser.ID))
	}

	logger.Infof("File uploaded: %s by User %s from %s (Time: %s)",
		storageName, currentUser.Username, clientIP, time.Since(start).Round(time.Millisecond))
	h.metrics.IncrSuccessful()
	return response.SuccessWithFile(c, "File uploaded successfully!", saved.PublicView())
}

// Metrics handles GET /apps/files/metrics and reports the process-wide
// upload counters as a flat JSON object.
func (h *Handler) Metrics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// ListUserFiles handles GET /apps/files/list for the authenticated
// user. Results are cached per user and invalidated on upload.
func (h *Handler) ListUserFiles(c echo.Context) error {
	claims := c.Get("user").(*auth.TokenClaims)
	key := h.cacheKey(claims.UserID)

	if h.redis != nil {
		var cached []map[string]interface{}
		if h.redis.Get(key, &cached) == nil {
			return c.JSON(http.StatusOK, echo.Map{
				"success": true,
				"files":   cached,
				"total":   len(cached),
				"cached":  true,
			})
		}
	}

	stored, err := h.fileRepo.GetStoredFilesByUserID(claims.UserID)
	if err != nil {
		logger.Errorf("Failed to list files for User %s: %v", claims.Username, err)
		return response.InternalError(c, "Failed to list files")
	}

	views := make([]map[string]interface{}, 0, len(stored))
	for _, f := range stored {
		views = append(views, f.PublicView())
	}

	if h.redis != nil {
		_ = h.redis.Set(key, views, listCacheTTL)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"files":   views,
		"total":   len(views),
	})
}

// GetFileByID handles GET /apps/files/:id; only the owner may read a
// record.
func (h *Handler) GetFileByID(c echo.Context) error {
	claims := c.Get("user").(*auth.TokenClaims)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid file id")
	}

	stored, found := h.fileRepo.GetStoredFileByID(id)
	if !found {
		return response.NotFound(c, "File not found")
	}

	if stored.UserID != claims.UserID {
		return response.Forbidden(c, "Access denied")
	}

	return response.SuccessWithFile(c, "", stored.PublicView())
}
