package tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"sync"
	"testing"

	"github.com/Aesmazing/Boko-Hacks-2025/server/models/auth"
	"github.com/Aesmazing/Boko-Hacks-2025/server/models/files"
	"github.com/Aesmazing/Boko-Hacks-2025/server/models/user"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
)

// Ensure the mocks implement the repository interfaces
var (
	_ user.Repository  = (*MockUserRepository)(nil)
	_ files.Repository = (*MockFileRepository)(nil)
)

var generatedNamePattern = regexp.MustCompile(`^[0-9a-f]{32}_\d{14}\.[a-z0-9]+$`)

type uploadTestEnv struct {
	handler  *files.Handler
	userRepo *MockUserRepository
	fileRepo *MockFileRepository
	fs       afero.Fs
	echo     *echo.Echo
}

func newUploadTestEnv(t *testing.T) *uploadTestEnv {
	t.Helper()

	userRepo := NewMockUserRepository()
	fileRepo := NewMockFileRepository()

	fs := afero.NewMemMapFs()
	storage, err := files.NewStorage(fs, "uploads")
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}

	validator := files.NewValidator(
		[]string{"pdf", "png", "jpg", "jpeg", "gif"},
		[]string{"application/pdf", "image/png", "image/jpeg", "image/gif"},
	)

	handler := files.NewHandler(userRepo, fileRepo, storage, validator, files.NewUploadMetrics(), nil, 0)

	return &uploadTestEnv{
		handler:  handler,
		userRepo: userRepo,
		fileRepo: fileRepo,
		fs:       fs,
		echo:     echo.New(),
	}
}

func (env *uploadTestEnv) addUser(t *testing.T, username string) *user.User {
	t.Helper()
	u, err := env.userRepo.CreateUser(username, "hashed-password")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

// createMultipartForm builds a multipart body with a single file part
// carrying an explicit Content-Type header.
func createMultipartForm(t *testing.T, fieldName, fileName, mimeType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldName, fileName))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	part.Write(content)
	writer.Close()

	return body, writer.FormDataContentType()
}

func (env *uploadTestEnv) uploadRequest(body io.Reader, contentType string, claims *auth.TokenClaims) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/apps/files/upload", body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	if claims != nil {
		c.Set("user", claims)
	}
	return c, rec
}

func (env *uploadTestEnv) metricsSnapshot(t *testing.T) map[string]int64 {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/apps/files/metrics", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	if err := env.handler.Metrics(c); err != nil {
		t.Fatalf("Metrics returned error: %v", err)
	}

	var snap map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("Failed to parse metrics body: %v", err)
	}
	return snap
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestUpload_NotLoggedIn(t *testing.T) {
	env := newUploadTestEnv(t)

	body, contentType := createMultipartForm(t, "file", "report.pdf", "application/pdf", []byte("content"))
	c, rec := env.uploadRequest(body, contentType, nil)

	if err := env.handler.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}

	resp := parseBody(t, rec)
	if resp["success"] != false || resp["error"] != "Not logged in" {
		t.Errorf("Unexpected body: %v", resp)
	}

	snap := env.metricsSnapshot(t)
	if snap[files.MetricTotal] != 1 || snap[files.MetricFailed] != 1 {
		t.Errorf("Expected total=1 failed=1, got %v", snap)
	}
	if env.fileRepo.Count() != 0 {
		t.Error("No StoredFile should be created for an unauthenticated request")
	}
}

func TestUpload_UserNotFound(t *testing.T) {
	env := newUploadTestEnv(t)

	body, contentType := createMultipartForm(t, "file", "report.pdf", "application/pdf", []byte("content"))
	c, rec := env.uploadRequest(body, contentType, &auth.TokenClaims{UserID: 99, Username: "ghost"})

	if err := env.handler.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	resp := parseBody(t, rec)
	if resp["error"] != "User not found" {
		t.Errorf("Unexpected error message: %v", resp["error"])
	}

	snap := env.metricsSnapshot(t)
	if snap[files.MetricFailed] != 1 {
		t.Errorf("Expected failed=1, got %v", snap)
	}
}

func TestUpload_NoFile(t *testing.T) {
	env := newUploadTestEnv(t)
	u := env.addUser(t, "alice")

	// Multipart body without a "file" part
	body, contentType := createMultipartForm(t, "other", "report.pdf", "application/pdf", []byte("content"))
	c, rec := env.uploadRequest(body, contentType, &auth.TokenClaims{UserID: u.ID, Username: u.Username})

	if err := env.handler.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	resp := parseBody(t, rec)
	if resp["error"] != "No file provided" {
		t.Errorf("Unexpected error message: %v", resp["error"])
	}

	snap := env.metricsSnapshot(t)
	if snap[files.MetricFailed] != 1 || snap[files.MetricUnauthorized] != 0 {
		t.Errorf("Expected failed=1 unauthorized=0, got %v", snap)
	}
}

func TestUpload_RejectedExtension(t *testing.T) {
	env := newUploadTestEnv(t)
	u := env.addUser(t, "alice")

	body, contentType := createMultipartForm(t, "file", "malware.exe", "application/pdf", []byte("MZ"))
	c, rec := env.uploadRequest(body, contentType, &auth.TokenClaims{UserID: u.ID, Username: u.Username})

	if err := env.handler.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	resp := parseBody(t, rec)
	if resp["error"] != "File type not allowed. This attempt has been logged." {
		t.Errorf("Unexpected error message: %v", resp["error"])
	}

	snap := env.metricsSnapshot(t)
	if snap[files.MetricUnauthorized] != 1 {
		t.Errorf("Expected unauthorized=1, got %v", snap)
	}
	if snap[files.MetricSuccessful] != 0 || snap[files.MetricFailed] != 0 {
		t.Errorf("Other outcome counters moved: %v", snap)
	}
	if env.fileRepo.Count() != 0 {
		t.Error("No StoredFile should be created for a rejected upload")
	}
}

func TestUpload_RejectedMimeType(t *testing.T) {
	env := newUploadTestEnv(t)
	u := env.addUser(t, "alice")

	body, contentType := createMultipartForm(t, "file", "photo.png", "application/x-sh", []byte("#!/bin/sh"))
	c, rec := env.uploadRequest(body, contentType, &auth.TokenClaims{UserID: u.ID, Username: u.Username})

	if err := env.handler.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	resp := parseBody(t, rec)
	if resp["error"] != "Invalid file type detected. This attempt has been logged." {
		t.Errorf("Unexpected error message: %v", resp["error"])
	}

	snap := env.metricsSnapshot(t)
	if snap[files.MetricUnauthorized] != 1 {
		t.Errorf("Expected unauthorized=1, got %v", snap)
	}
}

func TestUpload_Success(t *testing.T) {
	env := newUploadTestEnv(t)
	u := env.addUser(t, "alice")

	content := bytes.Repeat([]byte("a"), 2048)
	body, contentType := createMultipartForm(t, "file", "report.pdf", "application/pdf", content)
	c, rec := env.uploadRequest(body, contentType, &auth.TokenClaims{UserID: u.ID, Username: u.Username})

	if err := env.handler.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	resp := parseBody(t, rec)
	if resp["success"] != true {
		t.Error("Expected success: true")
	}
	if resp["message"] != "File uploaded successfully!" {
		t.Errorf("Unexpected message: %v", resp["message"])
	}

	file, ok := resp["file"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected file object in response, got %v", resp["file"])
	}

	filename, _ := file["filename"].(string)
	if !generatedNamePattern.MatchString(filename) {
		t.Errorf("Generated filename %q does not match expected pattern", filename)
	}
	if got := filename[len(filename)-4:]; got != ".pdf" {
		t.Errorf("Expected .pdf extension, got %q", got)
	}
	if file["original_filename"] != "report.pdf" {
		t.Errorf("Unexpected original_filename: %v", file["original_filename"])
	}
	if int64(file["file_size"].(float64)) != 2048 {
		t.Errorf("Expected file_size 2048, got %v", file["file_size"])
	}

	snap := env.metricsSnapshot(t)
	if snap[files.MetricTotal] != 1 || snap[files.MetricSuccessful] != 1 {
		t.Errorf("Expected total=1 successful=1, got %v", snap)
	}

	// Bytes must be on disk under the generated name
	stored, err := afero.ReadFile(env.fs, "uploads/"+filename)
	if err != nil {
		t.Fatalf("Stored file missing: %v", err)
	}
	if !bytes.Equal(stored, content) {
		t.Error("Stored bytes differ from uploaded content")
	}

	if env.fileRepo.Count() != 1 {
		t.Errorf("Expected 1 metadata record, got %d", env.fileRepo.Count())
	}
}

func TestUpload_ValidatedExtensionUsed(t *testing.T) {
	env := newUploadTestEnv(t)
	u := env.addUser(t, "alice")

	body, contentType := createMultipartForm(t, "file", "REPORT.PDF", "application/pdf", []byte("content"))
	c, rec := env.uploadRequest(body, contentType, &auth.TokenClaims{UserID: u.ID, Username: u.Username})

	if err := env.handler.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := parseBody(t, rec)
	file := resp["file"].(map[string]interface{})
	filename := file["filename"].(string)
	if filename[len(filename)-4:] != ".pdf" {
		t.Errorf("Expected lower-cased validated extension, got %q", filename)
	}
}

func TestUpload_PathTraversalSanitized(t *testing.T) {
	env := newUploadTestEnv(t)
	u := env.addUser(t, "alice")

	body, contentType := createMultipartForm(t, "file", "../../secret.pdf", "application/pdf", []byte("content"))
	c, rec := env.uploadRequest(body, contentType, &auth.TokenClaims{UserID: u.ID, Username: u.Username})

	if err := env.handler.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := parseBody(t, rec)
	file := resp["file"].(map[string]interface{})
	if file["original_filename"] != "secret.pdf" {
		t.Errorf("Directory components should be stripped, got %v", file["original_filename"])
	}
}

func TestUpload_FileTooLarge(t *testing.T) {
	env := newUploadTestEnv(t)
	u := env.addUser(t, "alice")

	// Handler with a tiny cap so the test stays small
	storage, _ := files.NewStorage(afero.NewMemMapFs(), "uploads")
	validator := files.NewValidator([]string{"pdf"}, []string{"application/pdf"})
	handler := files.NewHandler(env.userRepo, env.fileRepo, storage, validator, files.NewUploadMetrics(), nil, 16)

	body, contentType := createMultipartForm(t, "file", "report.pdf", "application/pdf", bytes.Repeat([]byte("a"), 64))
	c, rec := env.uploadRequest(body, contentType, &auth.TokenClaims{UserID: u.ID, Username: u.Username})

	if err := handler.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if env.fileRepo.Count() != 0 {
		t.Error("Oversize upload should not create a record")
	}
}

func TestUpload_MetadataCommitFailure(t *testing.T) {
	env := newUploadTestEnv(t)
	u := env.addUser(t, "alice")
	env.fileRepo.CreateError = errors.New("connection refused")

	body, contentType := createMultipartForm(t, "file", "report.pdf", "application/pdf", []byte("content"))
	c, rec := env.uploadRequest(body, contentType, &auth.TokenClaims{UserID: u.ID, Username: u.Username})

	if err := env.handler.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}

	snap := env.metricsSnapshot(t)
	if snap[files.MetricFailed] != 1 || snap[files.MetricSuccessful] != 0 {
		t.Errorf("Expected failed=1 successful=0, got %v", snap)
	}

	// Written bytes are rolled back when the metadata commit fails
	entries, err := afero.ReadDir(env.fs, "uploads")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no orphaned files, found %d", len(entries))
	}
}

func TestUpload_ConcurrentSuccesses(t *testing.T) {
	env := newUploadTestEnv(t)
	u := env.addUser(t, "alice")

	const n = 20

	results := make([]string, n)
	statuses := make([]int, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			content := []byte(fmt.Sprintf("content-%d", i))
			body, contentType := createMultipartForm(t, "file", "report.pdf", "application/pdf", content)
			c, rec := env.uploadRequest(body, contentType, &auth.TokenClaims{UserID: u.ID, Username: u.Username})

			if err := env.handler.Upload(c); err != nil {
				return
			}
			statuses[i] = rec.Code

			var resp map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				return
			}
			if file, ok := resp["file"].(map[string]interface{}); ok {
				results[i], _ = file["filename"].(string)
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		if statuses[i] != http.StatusOK {
			t.Errorf("Upload %d: expected 200, got %d", i, statuses[i])
		}
		if results[i] == "" || seen[results[i]] {
			t.Errorf("Upload %d: missing or duplicate storage name %q", i, results[i])
		}
		seen[results[i]] = true
	}

	snap := env.metricsSnapshot(t)
	if snap[files.MetricSuccessful] != n {
		t.Errorf("Expected successful=%d, got %d", n, snap[files.MetricSuccessful])
	}
	if snap[files.MetricTotal] != n {
		t.Errorf("Expected total=%d, got %d", n, snap[files.MetricTotal])
	}
}

func TestMetrics_IdempotentWithoutUploads(t *testing.T) {
	env := newUploadTestEnv(t)

	first := env.metricsSnapshot(t)
	second := env.metricsSnapshot(t)

	for _, name := range []string{files.MetricTotal, files.MetricSuccessful, files.MetricFailed, files.MetricUnauthorized} {
		if first[name] != second[name] {
			t.Errorf("Counter %s changed between snapshots: %d vs %d", name, first[name], second[name])
		}
		if first[name] != 0 {
			t.Errorf("Counter %s should be 0 before any upload, got %d", name, first[name])
		}
	}
}

func TestListUserFiles_OnlyOwnFiles(t *testing.T) {
	env := newUploadTestEnv(t)

	env.fileRepo.AddFile(&files.StoredFile{ID: 1, UserID: 1, Filename: "a.pdf"})
	env.fileRepo.AddFile(&files.StoredFile{ID: 2, UserID: 1, Filename: "b.pdf"})
	env.fileRepo.AddFile(&files.StoredFile{ID: 3, UserID: 2, Filename: "c.pdf"})

	req := httptest.NewRequest(http.MethodGet, "/apps/files/list", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set("user", &auth.TokenClaims{UserID: 1, Username: "alice"})

	if err := env.handler.ListUserFiles(c); err != nil {
		t.Fatalf("ListUserFiles returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	resp := parseBody(t, rec)
	if total, _ := resp["total"].(float64); int(total) != 2 {
		t.Errorf("Expected total 2, got %v", resp["total"])
	}
}

func TestGetFileByID_OwnerOnly(t *testing.T) {
	env := newUploadTestEnv(t)

	env.fileRepo.AddFile(&files.StoredFile{ID: 7, UserID: 2, Filename: "theirs.pdf"})

	req := httptest.NewRequest(http.MethodGet, "/apps/files/7", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	c.Set("user", &auth.TokenClaims{UserID: 1, Username: "alice"})

	if err := env.handler.GetFileByID(c); err != nil {
		t.Fatalf("GetFileByID returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}
