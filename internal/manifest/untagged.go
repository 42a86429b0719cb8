package manifest

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// UnmarshalTOML implements toml.Unmarshaler for the bare-string /
// detailed-table union that RepositoryEntry represents in Kargo.toml,
// e.g. `central = "https://..."` vs.
// `nexus = { url = "...", username = "${env:NEXUS_USER}" }`.
func (r *RepositoryEntry) UnmarshalTOML(value interface{}) error {
	switch v := value.(type) {
	case string:
		r.URL = v
		return nil
	case map[string]interface{}:
		if url, ok := v["url"].(string); ok {
			r.URL = url
		}
		if auth, ok := v["auth"].(string); ok {
			r.Auth = auth
		}
		if username, ok := v["username"].(string); ok {
			r.Username = username
		}
		if password, ok := v["password"].(string); ok {
			r.Password = password
		}
		return nil
	default:
		return fmt.Errorf("manifest: unsupported repository entry shape %T", value)
	}
}

// MarshalTOML implements toml.Marshaler, round-tripping a credential-free
// entry back to a bare URL string and anything else to a detailed table.
func (r RepositoryEntry) MarshalTOML() ([]byte, error) {
	if r.Auth == "" && r.Username == "" && r.Password == "" {
		return toml.Marshal(r.URL)
	}
	return toml.Marshal(map[string]string{
		"url":      r.URL,
		"auth":     r.Auth,
		"username": r.Username,
		"password": r.Password,
	})
}

// UnmarshalTOML implements toml.Unmarshaler for the bare-ID / detailed
// form a plugin reference may take.
func (p *PluginRef) UnmarshalTOML(value interface{}) error {
	switch v := value.(type) {
	case string:
		p.ID = v
		return nil
	case map[string]interface{}:
		if id, ok := v["id"].(string); ok {
			p.ID = id
		}
		if version, ok := v["version"].(string); ok {
			p.Version = version
		}
		return nil
	default:
		return fmt.Errorf("manifest: unsupported plugin ref shape %T", value)
	}
}

// MarshalTOML implements toml.Marshaler.
func (p PluginRef) MarshalTOML() ([]byte, error) {
	if p.Version == "" {
		return toml.Marshal(p.ID)
	}
	return toml.Marshal(map[string]string{"id": p.ID, "version": p.Version})
}
