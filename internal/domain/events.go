// Package domain defines events for the event-driven architecture.
// Events enable loose coupling between the spectrum source, the visualizer
// service, and the UI.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Spectrum source events
	EventSpectrumFrame EventType = "spectrum.frame"
	EventTrackLoaded   EventType = "track.loaded"
	EventTrackFinished EventType = "track.finished"
	EventSourceError   EventType = "source.error"

	// Visualizer events
	EventQualityChanged EventType = "quality.changed"
	EventMeshRebuilt    EventType = "mesh.rebuilt"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// SpectrumFrameEvent is published once per analysis window with the
// frequency-magnitude array for that window. The slice is owned by the
// event: the source must not reuse the backing array after publishing.
type SpectrumFrameEvent struct {
	baseEvent
	Magnitudes []float64
	SampleRate int
}

// Type returns the event type.
func (e SpectrumFrameEvent) Type() EventType {
	return EventSpectrumFrame
}

// NewSpectrumFrameEvent creates a new SpectrumFrameEvent.
func NewSpectrumFrameEvent(magnitudes []float64, sampleRate int) SpectrumFrameEvent {
	return SpectrumFrameEvent{
		baseEvent:  newBaseEvent(),
		Magnitudes: magnitudes,
		SampleRate: sampleRate,
	}
}

// TrackLoadedEvent is published when an audio file is successfully opened.
type TrackLoadedEvent struct {
	baseEvent
	Track TrackInfo
}

// Type returns the event type.
func (e TrackLoadedEvent) Type() EventType {
	return EventTrackLoaded
}

// NewTrackLoadedEvent creates a new TrackLoadedEvent.
func NewTrackLoadedEvent(track TrackInfo) TrackLoadedEvent {
	return TrackLoadedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackFinishedEvent is published when the source reaches the end of the
// audio stream.
type TrackFinishedEvent struct {
	baseEvent
	Track TrackInfo
}

// Type returns the event type.
func (e TrackFinishedEvent) Type() EventType {
	return EventTrackFinished
}

// NewTrackFinishedEvent creates a new TrackFinishedEvent.
func NewTrackFinishedEvent(track TrackInfo) TrackFinishedEvent {
	return TrackFinishedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// SourceErrorEvent is published when the streaming loop hits a non-fatal
// decode or playback error.
type SourceErrorEvent struct {
	baseEvent
	Track TrackInfo
	Err   error
}

// Type returns the event type.
func (e SourceErrorEvent) Type() EventType {
	return EventSourceError
}

// NewSourceErrorEvent creates a new SourceErrorEvent.
func NewSourceErrorEvent(track TrackInfo, err error) SourceErrorEvent {
	return SourceErrorEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Err:       err,
	}
}

// QualityChangedEvent is published when the active quality profile changes.
type QualityChangedEvent struct {
	baseEvent
	Profile QualityProfile
}

// Type returns the event type.
func (e QualityChangedEvent) Type() EventType {
	return EventQualityChanged
}

// NewQualityChangedEvent creates a new QualityChangedEvent.
func NewQualityChangedEvent(profile QualityProfile) QualityChangedEvent {
	return QualityChangedEvent{
		baseEvent: newBaseEvent(),
		Profile:   profile,
	}
}

// MeshRebuiltEvent is published after the simulator rebuilds its grid.
type MeshRebuiltEvent struct {
	baseEvent
	Cols       int
	Rows       int
	NodeBudget int
	Generation uint64
}

// Type returns the event type.
func (e MeshRebuiltEvent) Type() EventType {
	return EventMeshRebuilt
}

// NewMeshRebuiltEvent creates a new MeshRebuiltEvent.
func NewMeshRebuiltEvent(cols, rows, nodeBudget int, generation uint64) MeshRebuiltEvent {
	return MeshRebuiltEvent{
		baseEvent:  newBaseEvent(),
		Cols:       cols,
		Rows:       rows,
		NodeBudget: nodeBudget,
		Generation: generation,
	}
}
