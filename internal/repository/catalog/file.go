// Package catalog loads album collections from JSON files.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/albumdex/internal/domain/album"
)

// LoadFile reads a JSON array of albums.
func LoadFile(path string) ([]album.Album, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var dtos []AlbumDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	albums, err := ToDomain(dtos)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return albums, nil
}
