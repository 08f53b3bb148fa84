package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"unicode"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ReadDataToInterface decodes JSON or YAML into T. YAML is converted to JSON
// first so the json struct tags are the only mapping that matters.
func ReadDataToInterface[T any](data []byte, _ T) (*T, error) {

	var item T

	// only the trimmed copy is used to sniff the format. YAML indentation
	// must survive for the decoder.
	trimmed := bytes.TrimLeftFunc(data, unicode.IsSpace)

	if len(trimmed) == 0 {
		return nil, fmt.Errorf("no data provided")

	} else if trimmed[0] == '{' || trimmed[0] == '[' {
		logrus.Debugln("Data format detected: JSON")
	} else {
		var yamlData any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			logrus.WithError(err).Errorln("Failed to unmarshal YAML")
			return nil, err
		}

		if jsonData, err := json.Marshal(yamlData); err != nil {
			logrus.WithError(err).Errorln("Failed to convert YAML to JSON")
			return nil, err
		} else {
			data = jsonData
		}
	}

	if err := json.Unmarshal(data, &item); err != nil {
		logrus.WithError(err).Errorln("Failed to unmarshal JSON data")
		return nil, fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return &item, nil
}

// ReadFileToInterface reads a JSON or YAML file from disk into T.
func ReadFileToInterface[T any](path string, definition T) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return ReadDataToInterface(data, definition)
}
