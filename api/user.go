package api

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// User is what the client reads out of the auth token. The signature is
// not checked here; the backend does that.
type User struct {
	Sub   string   `json:"sub"`
	Roles []string `json:"roles"`
	ID    int64    `json:"id"`
}

func (u *User) IsExpert() bool {
	for _, role := range u.Roles {
		if strings.HasPrefix(role, "Expert") {
			return true
		}
	}
	return false
}

// ParseUser decodes the claims of a JWT.
func ParseUser(token string) (*User, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New("auth token is not a JWT")
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, errors.Wrap(err, "decoding auth token payload")
	}

	user := &User{}
	if err := json.Unmarshal(payload, user); err != nil {
		return nil, errors.Wrap(err, "parsing auth token claims")
	}

	return user, nil
}

// Credentials is the persisted login.
type Credentials struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username,omitempty"`
}

// LoadCredentials reads a credentials file. A missing file is not an error
// and yields empty credentials.
func LoadCredentials(path string) (*Credentials, error) {
	creds := &Credentials{}
	if path == "" {
		return creds, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return creds, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading credentials %s", path)
	}

	if err := yaml.Unmarshal(data, creds); err != nil {
		return nil, errors.Wrapf(err, "parsing credentials %s", path)
	}

	return creds, nil
}

func SaveCredentials(path string, creds *Credentials) error {
	data, err := yaml.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "encoding credentials")
	}

	return errors.Wrapf(os.WriteFile(path, data, 0o600), "writing credentials %s", path)
}
