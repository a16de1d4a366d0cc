// Copyright (c) HashiCorp, Inc.

package configfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hashicorp/go-sdql/schema"
)

// LoadYAML reads a schema.Config from a YAML file at path.
func LoadYAML(path string) (schema.Config, error) {
	b, err := readFile(path)
	if err != nil {
		return schema.Config{}, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return schema.Config{}, fmt.Errorf("configfile: decode yaml %q: %w", path, err)
	}
	return fc.toConfig()
}
