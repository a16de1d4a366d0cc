// Copyright (c) HashiCorp, Inc.

package configfile

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/hashicorp/go-sdql/schema"
)

// LoadTOML reads a schema.Config from a TOML file at path.
func LoadTOML(path string) (schema.Config, error) {
	b, err := readFile(path)
	if err != nil {
		return schema.Config{}, err
	}
	var fc fileConfig
	if _, err := toml.Decode(string(b), &fc); err != nil {
		return schema.Config{}, fmt.Errorf("configfile: decode toml %q: %w", path, err)
	}
	return fc.toConfig()
}
