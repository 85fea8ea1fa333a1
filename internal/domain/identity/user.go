package identity

import (
	"context"
	"regexp"
	"strings"

	"github.com/obaptiste/dashboard-api/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// User represents a dashboard user account
type User struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Password string `gorm:"type:varchar(60);not null" json:"-"` // bcrypt hash
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NewUser creates a user with a bcrypt-hashed password
func NewUser(name, email, plainPassword string) (*User, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if len(plainPassword) < 6 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		// Stored lowercased so lookups can normalize the same way
		Email:    strings.ToLower(email),
		Password: string(hash),
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}
