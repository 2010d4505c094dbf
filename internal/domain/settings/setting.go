package settings

import (
	"context"
	"time"

	"github.com/salesdesk/backend/internal/domain/shared"
)

// Setting is a key/value application preference, stored as plain strings and
// interpreted by the caller
type Setting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "settings"
}

// NewSetting creates a new setting
func NewSetting(key, value string) (*Setting, error) {
	if key == "" {
		return nil, shared.NewValidationError("Setting key is required")
	}
	return &Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}, nil
}

// SettingRepository defines the persistence contract for settings
type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	GetAll(ctx context.Context) ([]Setting, error)
	Set(ctx context.Context, setting *Setting) error
	Delete(ctx context.Context, key string) error
}
