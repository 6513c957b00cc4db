// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package profile

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/bex/internal/model"
)

// exportFile is the on-disk shape of a profile export.
type exportFile struct {
	Profiles []model.Profile `yaml:"profiles"`
}

// ExportYAML renders profiles as a YAML document.
func ExportYAML(profiles []model.Profile) ([]byte, error) {
	if profiles == nil {
		profiles = []model.Profile{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(exportFile{Profiles: profiles}); err != nil {
		return nil, fmt.Errorf("failed to encode profiles: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode profiles: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportYAML reads a document written by ExportYAML. Every profile needs a
// name; missing IDs are assigned.
func ImportYAML(data []byte) ([]model.Profile, error) {
	var file exportFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	var list []model.Profile
	for i, p := range file.Profiles {
		var err error
		list, _, err = Add(list, p)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", i+1, err)
		}
	}
	if list == nil {
		list = []model.Profile{}
	}
	return list, nil
}
