package config

import (
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// Secrets holds provider credentials kept outside the main config file.
type Secrets struct {
	MetasBooksKey string
}

// LoadSecrets reads provider API keys from an INI file. An empty path
// means no keyed providers are configured, which is not an error.
func LoadSecrets(path string) (Secrets, error) {
	var s Secrets
	if path == "" {
		return s, nil
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return s, errors.Wrapf(err, "load secrets file %s", path)
	}
	s.MetasBooksKey = cfg.Section("metasbooks").Key("api_key").String()
	return s, nil
}
