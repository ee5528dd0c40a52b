package client

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail = errors.New("invalid email format")
	ErrInvalidName  = errors.New("client name is required")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email is stored lowercased so that (business, email) identifies one client.
type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

// ReconstructEmail trusts a stored, already normalized address.
func ReconstructEmail(s string) Email {
	return Email{value: s}
}

func (e Email) Value() string {
	return e.value
}

// Client is scoped to one business.
type Client struct {
	id         uuid.UUID
	businessID uuid.UUID
	name       string
	email      Email
	phone      string
	consent    bool
	consentAt  *time.Time
}

// NewClient records consent at first booking.
func NewClient(businessID uuid.UUID, name string, email Email, phone string, now time.Time) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	at := now
	return &Client{
		id:         uuid.New(),
		businessID: businessID,
		name:       name,
		email:      email,
		phone:      strings.TrimSpace(phone),
		consent:    true,
		consentAt:  &at,
	}, nil
}

func ReconstructClient(
	id, businessID uuid.UUID,
	name string,
	email Email,
	phone string,
	consent bool,
	consentAt *time.Time,
) *Client {
	return &Client{
		id:         id,
		businessID: businessID,
		name:       name,
		email:      email,
		phone:      phone,
		consent:    consent,
		consentAt:  consentAt,
	}
}

func (c *Client) ID() uuid.UUID         { return c.id }
func (c *Client) BusinessID() uuid.UUID { return c.businessID }
func (c *Client) Name() string          { return c.name }
func (c *Client) Email() Email          { return c.email }
func (c *Client) Phone() string         { return c.phone }
func (c *Client) Consent() bool         { return c.consent }
func (c *Client) ConsentAt() *time.Time { return c.consentAt }
