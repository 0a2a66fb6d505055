package files

import (
	"database/sql"
	"time"

	"github.com/Aesmazing/Boko-Hacks-2025/server/bsql"
)

// PostgresRepository implements the Repository interface for PostgreSQL
type PostgresRepository struct {
	db *bsql.DB
}

// NewPostgresRepository creates a new PostgresRepository
func NewPostgresRepository(db *bsql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateStoredFile inserts a new stored file record into the database
func (r *PostgresRepository) CreateStoredFile(file *StoredFile) (*StoredFile, error) {
	query := `
		INSERT INTO stored_files (
			user_id, filename, original_filename, content_type, file_size,
			file_path, client_ip, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	now := time.Now()
	err := r.db.QueryRow(
		query,
		file.UserID,
		file.Filename,
		file.OriginalFilename,
		file.ContentType,
		file.FileSize,
		file.FilePath,
		file.ClientIP,
		now,
	).Scan(&file.ID, &file.CreatedAt)

	if err != nil {
		return nil, err
	}

	return file, nil
}

// GetStoredFileByID retrieves a stored file by its ID
func (r *PostgresRepository) GetStoredFileByID(id int64) (*StoredFile, bool) {
	query := `
		SELECT id, user_id, filename, original_filename, content_type, file_size,
			   file_path, client_ip, created_at
		FROM stored_files
		WHERE id = $1`

	file := &StoredFile{}
	var clientIP sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&file.ID,
		&file.UserID,
		&file.Filename,
		&file.OriginalFilename,
		&file.ContentType,
		&file.FileSize,
		&file.FilePath,
		&clientIP,
		&file.CreatedAt,
	)

	if err != nil {
		return nil, false
	}

	file.ClientIP = clientIP.String

	return file, true
}

// GetStoredFilesByUserID retrieves all stored files for a specific user
func (r *PostgresRepository) GetStoredFilesByUserID(userID int64) ([]*StoredFile, error) {
	query := `
		SELECT id, user_id, filename, original_filename, content_type, file_size,
			   file_path, client_ip, created_at
		FROM stored_files
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stored []*StoredFile
	for rows.Next() {
		file := &StoredFile{}
		var clientIP sql.NullString

		err := rows.Scan(
			&file.ID,
			&file.UserID,
			&file.Filename,
			&file.OriginalFilename,
			&file.ContentType,
			&file.FileSize,
			&file.FilePath,
			&clientIP,
			&file.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		file.ClientIP = clientIP.String
		stored = append(stored, file)
	}

	return stored, rows.Err()
}
