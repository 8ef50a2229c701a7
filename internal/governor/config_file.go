package governor

import (
	"os"

	"github.com/BurntSushi/toml"
)

// LoadConfigFile reads an optional governor.toml override sitting next to
// the running title, merging any present fields over DefaultConfig. A
// missing file is not an error: it simply means the defaults apply.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}
