package utils

import (
	"fmt"
	"os"
)

// CreateFolder creates all given folders if they do not exist.
func CreateFolder(folders ...string) error {
	for _, folder := range folders {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return fmt.Errorf("error when create folder %s: %w", folder, err)
		}
	}
	return nil
}
