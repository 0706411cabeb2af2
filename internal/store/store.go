// Package store persists user accounts and uploaded statement files in a
// sqlite database, with file bodies kept on disk under the data directory.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
)

// NormalizeAccount trims an account number and rejects values that cannot
// name an upload directory. Every store operation keys on the result.
func NormalizeAccount(account string) (string, error) {
	account = strings.TrimSpace(account)
	if account == "" || account == "." || account == ".." || strings.ContainsAny(account, `/\`) {
		return "", fmt.Errorf("%w: account %q", ErrValidation, account)
	}
	return account, nil
}

// Store is the document library.
type Store struct {
	db         *gorm.DB
	uploadRoot string
	cost       int
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// WithClock overrides the time source used for upload timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens (creating if needed) the sqlite database at dbPath and the
// upload directory under dataDir.
func Open(dbPath, dataDir string, opts ...Option) (*Store, error) {
	s := &Store{
		uploadRoot: filepath.Join(dataDir, "uploads"),
		cost:       bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(s.uploadRoot, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &StoredDocument{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	s.db = db
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Register creates an account. An existing account is ErrConflict.
func (s *Store) Register(account, password string) (*User, error) {
	account, err := NormalizeAccount(account)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	var existing User
	err = s.db.Where("account_number = ?", account).First(&existing).Error
	switch {
	case err == nil:
		return nil, fmt.Errorf("account %s: %w", account, ErrConflict)
	case !gorm.IsRecordNotFoundError(err):
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u := &User{AccountNumber: account, PasswordHash: string(hash), CreatedAt: s.now()}
	if err := s.db.Create(u).Error; err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return u, nil
}

// Login checks a password. An unknown account is ErrNotFound; a wrong
// password is ErrInvalidCredentials.
func (s *Store) Login(account, password string) (*User, error) {
	account, err := NormalizeAccount(account)
	if err != nil {
		return nil, err
	}
	var u User
	if err := s.db.Where("account_number = ?", account).First(&u).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("account %s: %w", account, ErrNotFound)
		}
		return nil, fmt.Errorf("looking up account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// SaveDocument writes data to <data_dir>/uploads/<account>/<timestamp>__<name>
// and records it.
func (s *Store) SaveDocument(account, filename string, data []byte) (*StoredDocument, error) {
	account, err := NormalizeAccount(account)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}

	dir := filepath.Join(s.uploadRoot, account)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating account dir: %w", err)
	}
	now := s.now()
	stamp := fmt.Sprintf("%s_%06d", now.Format("20060102_150405"), now.Nanosecond()/1000)
	path := filepath.Join(dir, stamp+"__"+name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}

	doc := &StoredDocument{
		AccountNumber: account,
		Filename:      name,
		Filepath:      path,
		Size:          int64(len(data)),
		UploadedAt:    now,
	}
	if err := s.db.Create(doc).Error; err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns an account's documents, newest first.
func (s *Store) ListDocuments(account string) ([]StoredDocument, error) {
	account, err := NormalizeAccount(account)
	if err != nil {
		return nil, err
	}
	var docs []StoredDocument
	if err := s.db.
		Where("account_number = ?", account).
		Order("uploaded_at DESC").
		Order("id DESC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return docs, nil
}

// GetDocument returns one document record.
func (s *Store) GetDocument(id uint) (*StoredDocument, error) {
	var doc StoredDocument
	if err := s.db.First(&doc, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("document not found: %w", err)
	}
	return &doc, nil
}

// ReadDocument returns a stored document's bytes.
func (s *Store) ReadDocument(doc *StoredDocument) ([]byte, error) {
	data, err := os.ReadFile(doc.Filepath)
	if err != nil {
		return nil, fmt.Errorf("reading document %d: %w", doc.ID, err)
	}
	return data, nil
}

// DeleteDocument removes one of account's documents, file and record. A
// document owned by another account is ErrForbidden. A file already missing
// from disk is not an error.
func (s *Store) DeleteDocument(account string, id uint) error {
	account, err := NormalizeAccount(account)
	if err != nil {
		return err
	}
	doc, err := s.GetDocument(id)
	if err != nil {
		return err
	}
	if doc.AccountNumber != account {
		return fmt.Errorf("document %d: %w", id, ErrForbidden)
	}
	if err := os.Remove(doc.Filepath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing document file: %w", err)
	}
	if err := s.db.Delete(doc).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
