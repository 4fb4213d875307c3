// Package domain contains core models for the SoundMesh visualizer with no
// external dependencies.
package domain

import (
	"time"
)

// QualityLevel identifies one of the named quality presets.
type QualityLevel string

// Available quality levels.
const (
	QualityLow    QualityLevel = "low"
	QualityMedium QualityLevel = "medium"
	QualityHigh   QualityLevel = "high"
)

// QualityProfile bundles the density and feature toggles for one quality
// level. Profiles are immutable; switching profiles triggers a mesh rebuild.
type QualityProfile struct {
	// Level is the preset name this profile belongs to.
	Level QualityLevel

	// NodeBudget is the maximum number of mesh nodes the grid may allocate.
	NodeBudget int

	// MaxColumns caps the number of spectrum-driven mesh columns.
	MaxColumns int

	// DiagonalNeighbors connects diagonally adjacent nodes in addition to
	// the cardinal neighbors.
	DiagonalNeighbors bool

	// AdvancedEffects enables the horizontal spectrum impulse and the
	// ambient periodic wave force.
	AdvancedEffects bool

	// ConnectionLines enables drawing the neighbor connections in the
	// render adapter.
	ConnectionLines bool

	// SmoothColumns runs the reduced spectrum through the per-column
	// spring smoother before it reaches the force model.
	SmoothColumns bool
}

// ProfileFor returns the quality profile for the given level.
// Unknown levels fall back to the medium profile.
func ProfileFor(level QualityLevel) QualityProfile {
	switch level {
	case QualityLow:
		return QualityProfile{
			Level:             QualityLow,
			NodeBudget:        900,
			MaxColumns:        24,
			DiagonalNeighbors: false,
			AdvancedEffects:   false,
			ConnectionLines:   false,
			SmoothColumns:     true,
		}
	case QualityHigh:
		return QualityProfile{
			Level:             QualityHigh,
			NodeBudget:        4200,
			MaxColumns:        64,
			DiagonalNeighbors: true,
			AdvancedEffects:   true,
			ConnectionLines:   true,
			SmoothColumns:     true,
		}
	default:
		return QualityProfile{
			Level:             QualityMedium,
			NodeBudget:        2200,
			MaxColumns:        48,
			DiagonalNeighbors: false,
			AdvancedEffects:   true,
			ConnectionLines:   true,
			SmoothColumns:     true,
		}
	}
}

// Point is a 2-D coordinate in canvas space.
type Point struct {
	X float64
	Y float64
}

// MeshSnapshot is the renderable state handed from the simulation goroutine
// to the render path. A snapshot is immutable once published: the simulation
// only ever mutates the separate write buffer, so a snapshot may be shared
// by reference between the handoff buffer and any number of readers.
type MeshSnapshot struct {
	// Positions holds the current node positions, row-major
	// (index = row*Cols + col). Node indices are stable for the lifetime
	// of one mesh generation.
	Positions []Point

	// Brightness holds a per-node displacement-derived intensity in [0,1],
	// same indexing as Positions.
	Brightness []float64

	// Cols and Rows describe the grid topology of this generation.
	Cols int
	Rows int

	// Generation increments on every mesh rebuild. Readers can use it to
	// detect topology changes between snapshots.
	Generation uint64
}

// NodeCount returns the number of nodes in the snapshot.
func (s MeshSnapshot) NodeCount() int {
	return len(s.Positions)
}

// TrackInfo describes the audio file feeding the visualizer.
type TrackInfo struct {
	// FilePath is the absolute path to the audio file.
	FilePath string

	// Title is the song title (from metadata or filename).
	Title string

	// Artist is the performing artist name.
	Artist string

	// Album is the album name.
	Album string

	// FileFormat is the file extension (wav, mp3).
	FileFormat string

	// SampleRate is the audio sample rate in Hz.
	SampleRate int

	// Channels is the number of audio channels.
	Channels int

	// Duration is the total track length, zero when unknown.
	Duration time.Duration
}

// DisplayName returns a human-friendly name for the track.
func (t TrackInfo) DisplayName() string {
	if t.Title == "" {
		return t.FilePath
	}
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}
