package partner

import (
	"net/url"
	"regexp"
	"time"

	"github.com/obaptiste/dashboard-api/internal/domain/shared"
)

// Customer represents a customer in the partner context.
// It is the aggregate root for customer-related operations.
type Customer struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(255);not null;index"`
	ImageURL string `gorm:"type:varchar(500)"` // Optional avatar reference
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(name, email, imageURL string) (*Customer, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateImageURL(imageURL); err != nil {
		return nil, err
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		ImageURL:   imageURL,
	}, nil
}

// Update replaces the customer's mutable fields
func (c *Customer) Update(name, email, imageURL string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validateImageURL(imageURL); err != nil {
		return err
	}

	c.Name = name
	c.Email = email
	c.ImageURL = imageURL
	c.UpdatedAt = time.Now()

	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 255 characters")
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 255 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 255 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateImageURL(imageURL string) error {
	if imageURL == "" {
		return nil
	}
	if len(imageURL) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}
	u, err := url.Parse(imageURL)
	if err != nil || u.Host == "" && !isRelativePath(imageURL) {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL must be a valid URL or path")
	}
	return nil
}

// isRelativePath accepts site-relative references like /customers/avatar.png,
// which the seed data uses for bundled avatars.
func isRelativePath(ref string) bool {
	return len(ref) > 0 && ref[0] == '/'
}
