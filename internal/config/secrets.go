package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Secrets file layout.
const (
	SecretsSection  = "globus"
	ClientIDKey     = "client_id"
	ClientSecretKey = "client_secret"

	defaultSecretsFile = ".globus_secrets"
)

// Credentials are the confidential client id and secret used for the
// client-credentials grant. They live only in memory for one invocation.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// String redacts the secret.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{ClientID: %s, ClientSecret: REDACTED}", c.ClientID)
}

// LogValue implements slog.LogValuer so credentials never reach a log sink.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("client_id", c.ClientID),
		slog.String("client_secret", "REDACTED"),
	)
}

// Secrets is a parsed secrets file.
type Secrets struct {
	path string
	file *ini.File
}

// Path returns the file the secrets were read from.
func (s *Secrets) Path() string {
	return s.path
}

// DefaultSecretsPath returns ~/.globus_secrets, or a relative path if the
// home directory cannot be determined.
func DefaultSecretsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultSecretsFile
	}
	return filepath.Join(home, defaultSecretsFile)
}

// ReadSecrets parses the INI file at path.
func ReadSecrets(path string) (*Secrets, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SecretsError{Path: path, Err: ErrSecretsNotFound}
		}
		return nil, &SecretsError{Path: path, Err: fmt.Errorf("%w: %v", ErrSecretsNotFound, err)}
	}
	if info.IsDir() {
		return nil, &SecretsError{Path: path, Err: fmt.Errorf("%w: is a directory", ErrSecretsNotFound)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SecretsError{Path: path, Err: fmt.Errorf("%w: %v", ErrSecretsNotFound, err)}
	}

	// Keys are case-insensitive, sections are not.
	file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, data)
	if err != nil {
		return nil, &SecretsError{Path: path, Err: fmt.Errorf("%w: %v", ErrMalformedSecrets, err)}
	}

	return &Secrets{path: path, file: file}, nil
}

// GetRequired returns the trimmed value of key in section.
// A missing section, a missing key and a blank value are distinct failures.
func (s *Secrets) GetRequired(section, key string) (string, error) {
	sec, err := s.file.GetSection(section)
	if err != nil {
		return "", &SecretsError{Path: s.path, Section: section, Err: ErrMissingSection}
	}
	if !sec.HasKey(key) {
		return "", &SecretsError{Path: s.path, Section: section, Key: key, Err: ErrMissingKey}
	}
	val := strings.TrimSpace(sec.Key(key).String())
	if val == "" {
		return "", &SecretsError{Path: s.path, Section: section, Key: key, Err: ErrEmptyValue}
	}
	return val, nil
}

// ClientID returns the globus client_id.
func (s *Secrets) ClientID() (string, error) {
	return s.GetRequired(SecretsSection, ClientIDKey)
}

// ClientSecret returns the globus client_secret.
func (s *Secrets) ClientSecret() (string, error) {
	return s.GetRequired(SecretsSection, ClientSecretKey)
}

// LoadCredentials reads the secrets file at path and extracts both credentials.
func LoadCredentials(path string) (Credentials, error) {
	secrets, err := ReadSecrets(path)
	if err != nil {
		return Credentials{}, err
	}
	id, err := secrets.ClientID()
	if err != nil {
		return Credentials{}, err
	}
	secret, err := secrets.ClientSecret()
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{ClientID: id, ClientSecret: secret}, nil
}
