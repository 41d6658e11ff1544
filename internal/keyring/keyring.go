// Package keyring stores the PostgreSQL connection string, password included, in the OS
// credential store so it never has to appear in flags, environment or config files.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/lifeplan/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Credentials addresses one keyring entry
type Credentials struct {
	Service string
	User    string
}

// Default is the entry lifeplan reads at startup
func Default() Credentials {
	return Credentials{Service: constants.AppName, User: constants.DefaultKeyringUser}
}

// Status summarizes the keyring for `keyring status`
type Status struct {
	Available bool
	Stored    bool
	// Redacted is the stored connection string with its password masked
	Redacted string
}

func (c Credentials) ConnectionString() (string, error) {
	connStr, err := keyring.Get(c.Service, c.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func (c Credentials) SetConnectionString(connStr string) error {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(c.Service, c.User, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func (c Credentials) Delete() error {
	err := keyring.Delete(c.Service, c.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Available reports whether the OS keyring answers reads at all
func (c Credentials) Available() bool {
	_, err := keyring.Get(c.Service, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func (c Credentials) Status() Status {
	s := Status{Available: c.Available()}
	if !s.Available {
		return s
	}
	connStr, err := c.ConnectionString()
	if err != nil {
		return s
	}
	s.Stored = true
	s.Redacted = Redact(connStr)
	return s
}

// Redact masks the password of a URL or key=value connection string
func Redact(connStr string) string {
	if strings.Contains(connStr, "://") {
		scheme, rest, _ := strings.Cut(connStr, "://")
		at := strings.LastIndex(rest, "@")
		if at < 0 {
			return connStr
		}
		userinfo, host := rest[:at], rest[at+1:]
		if user, _, hasPass := strings.Cut(userinfo, ":"); hasPass {
			return scheme + "://" + user + ":****@" + host
		}
		return connStr
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if k, _, ok := strings.Cut(f, "="); ok && strings.EqualFold(k, "password") {
			fields[i] = k + "=****"
		}
	}
	return strings.Join(fields, " ")
}

// GetConnectionString reads the default entry
func GetConnectionString() (string, error) {
	return Default().ConnectionString()
}
