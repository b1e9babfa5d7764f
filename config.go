package swsketch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads a SwSketch from path. The format follows the extension:
// .toml, .yaml/.yml, anything else is JSON.
func LoadConfig(path string) (*SwSketch, error) {
	cBuff, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't find/open config file (%s)", path)
	}

	sw := &SwSketch{}
	err = decodeConfig(filepath.Ext(path), cBuff, sw)
	if err != nil {
		return nil, errors.Wrapf(err, "failed decoding config file (%s)", path)
	}

	return sw, nil
}

func decodeConfig(ext string, cBuff []byte, sw *SwSketch) error {
	switch strings.ToLower(ext) {
	case ".toml":
		_, err := toml.Decode(string(cBuff), sw)
		return err
	case ".yaml", ".yml":
		return yaml.Unmarshal(cBuff, sw)
	default:
		return json.Unmarshal(cBuff, sw)
	}
}
