package catalog

import (
	"fmt"

	"github.com/kailas-cloud/albumdex/internal/domain"
	"github.com/kailas-cloud/albumdex/internal/domain/album"
)

// AlbumDTO is the serialized field map of an album, shared by the seed file
// format and the collection snapshot.
type AlbumDTO struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Year   int    `json:"year,omitempty"`
	Tracks int    `json:"tracks,omitempty"`
}

// FromDomain converts albums to DTOs.
func FromDomain(albums []album.Album) []AlbumDTO {
	out := make([]AlbumDTO, len(albums))
	for i, a := range albums {
		out[i] = AlbumDTO{
			ID:     a.ID(),
			Title:  a.Title(),
			Artist: a.Artist(),
			Genre:  a.Genre(),
			Year:   a.Year(),
			Tracks: a.Tracks(),
		}
	}
	return out
}

// ToDomain validates DTOs and converts them to albums.
func ToDomain(dtos []AlbumDTO) ([]album.Album, error) {
	out := make([]album.Album, 0, len(dtos))
	for i, d := range dtos {
		a, err := album.New(d.ID, d.Title, d.Artist, d.Genre, d.Year, d.Tracks)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", domain.ErrInvalidAlbum, i, err)
		}
		out = append(out, a)
	}
	return out, nil
}
