package file

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/soundmesh/soundmesh/internal/domain"
)

// fillMetadata reads title, artist, and album tags into the track. Tag
// reading is best-effort: any failure leaves the filename-derived defaults
// in place.
func fillMetadata(track *domain.TrackInfo) {
	base := filepath.Base(track.FilePath)
	track.Title = strings.TrimSuffix(base, filepath.Ext(base))

	f, err := os.Open(track.FilePath)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	meta, err := tag.ReadFrom(f)
	if err != nil || meta == nil {
		return
	}

	if title := strings.TrimSpace(meta.Title()); title != "" {
		track.Title = title
	}
	if artist := strings.TrimSpace(meta.Artist()); artist != "" {
		track.Artist = artist
	}
	if album := strings.TrimSpace(meta.Album()); album != "" {
		track.Album = album
	}
}
