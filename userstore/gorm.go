package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	goLogin "github.com/MrEthical07/goLogin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// UserRecord is the users table row.
type UserRecord struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(100)"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (UserRecord) TableName() string { return "users" }

// LoginLog is the login_logs table row. UserID is NULL for attempts against
// unknown usernames.
type LoginLog struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   string    `gorm:"type:varchar(36);index"`
	EventType string    `gorm:"type:varchar(50);index;not null"`
	UserID    *string   `gorm:"type:varchar(36);index"`
	Username  string    `gorm:"type:varchar(50);index;not null"`
	IPAddress string    `gorm:"type:varchar(45)"`
	UserAgent string    `gorm:"type:varchar(255)"`
	Status    string    `gorm:"type:varchar(20);not null"`
	Message   string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"index;not null"`
}

func (LoginLog) TableName() string { return "login_logs" }

var (
	_ goLogin.UserStore = (*Gorm)(nil)
	_ goLogin.AuditLog  = (*Gorm)(nil)
)

// Gorm is a [goLogin.UserStore] and [goLogin.AuditLog] over any gorm dialect.
type Gorm struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGorm wraps db and migrates both tables.
func NewGorm(ctx context.Context, db *gorm.DB) (*Gorm, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm user store requires database handle")
	}
	if err := db.WithContext(ctx).AutoMigrate(&UserRecord{}, &LoginLog{}); err != nil {
		return nil, fmt.Errorf("migrate user tables: %w", err)
	}
	return &Gorm{db: db, now: time.Now}, nil
}

// OpenSQLite opens (or creates) a SQLite database at dsn and returns a
// migrated store. Use "file::memory:?cache=shared" for a throwaway database.
func OpenSQLite(ctx context.Context, dsn string) (*Gorm, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	return NewGorm(ctx, db)
}

// DB exposes the underlying handle.
func (s *Gorm) DB() *gorm.DB {
	return s.db
}

func (s *Gorm) FindByUsername(ctx context.Context, username string) (*goLogin.User, error) {
	return s.findOne(ctx, "username = ?", username)
}

func (s *Gorm) FindByID(ctx context.Context, id string) (*goLogin.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *Gorm) findOne(ctx context.Context, query string, arg string) (*goLogin.User, error) {
	var rec UserRecord
	err := s.db.WithContext(ctx).Where(query, arg).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.toUser(), nil
}

// Create inserts a user with a fresh uuid. A duplicate username yields
// [goLogin.ErrUsernameTaken].
func (s *Gorm) Create(ctx context.Context, in goLogin.CreateUserInput) (*goLogin.User, error) {
	now := s.now().UTC()
	rec := UserRecord{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		Email:        in.Email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&UserRecord{}).Where("username = ?", in.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return goLogin.ErrUsernameTaken
		}
		return tx.Create(&rec).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, goLogin.ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return rec.toUser(), nil
}

// UpdatePasswordHash replaces the stored hash for id.
func (s *Gorm) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	res := s.db.WithContext(ctx).
		Model(&UserRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    s.now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return goLogin.ErrUserNotFound
	}
	return nil
}

// Record appends event to login_logs.
func (s *Gorm) Record(ctx context.Context, event goLogin.AuditEvent) error {
	row := LoginLog{
		EventID:   event.EventID,
		EventType: event.EventType,
		Username:  event.Username,
		IPAddress: event.IP,
		UserAgent: event.UserAgent,
		Status:    event.Status,
		Message:   event.Message,
		CreatedAt: event.Timestamp,
	}
	if event.UserID != "" {
		id := event.UserID
		row.UserID = &id
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// RecentLogins returns up to limit login_logs rows for username, newest first.
func (s *Gorm) RecentLogins(ctx context.Context, username string, limit int) ([]LoginLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []LoginLog
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Close releases the underlying connection pool.
func (s *Gorm) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *UserRecord) toUser() *goLogin.User {
	return &goLogin.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Email:        r.Email,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
