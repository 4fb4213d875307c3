// Package widgets provides custom Fyne widgets for the SoundMesh application.
package widgets

import (
	"image"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/soundmesh/soundmesh/internal/domain"
	"github.com/soundmesh/soundmesh/internal/ports"
)

// spectrumBars is the column count requested from the simulator. The grid
// clamps it against the profile's MaxColumns and node budget, so a single
// generous constant serves every quality level.
const spectrumBars = 64

// MeshField renders the simulated mesh. It is the producer side of the
// simulator contract: every displayed frame it submits the latest spectrum
// together with its canvas size, then draws whatever snapshot the
// simulation loop has published most recently.
type MeshField struct {
	widget.BaseWidget

	raster *canvas.Raster
	sim    ports.MeshSimulator

	// observe receives the duration of each draw pass. Wired to the
	// adaptive resolution controller; nil disables the feedback.
	observe func(time.Duration)

	mu         sync.RWMutex
	magnitudes []float64
	profile    domain.QualityProfile
}

// NewMeshField creates the widget. The profile arrives later via SetProfile;
// until then the medium defaults apply.
func NewMeshField(sim ports.MeshSimulator, observe func(time.Duration)) *MeshField {
	f := &MeshField{
		sim:     sim,
		observe: observe,
		profile: domain.ProfileFor(domain.QualityMedium),
	}

	f.raster = canvas.NewRaster(f.draw)
	f.ExtendBaseWidget(f)

	return f
}

// CreateRenderer implements fyne.Widget.
func (f *MeshField) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(f.raster)
}

// MinSize returns a minimal size so the widget expands to fill available space.
func (f *MeshField) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

// UpdateSpectrum stores the latest magnitude spectrum and requests a redraw.
func (f *MeshField) UpdateSpectrum(magnitudes []float64) {
	f.mu.Lock()
	f.magnitudes = magnitudes
	f.mu.Unlock()

	f.raster.Refresh()
}

// SetProfile switches the active quality profile. The next draw submits it
// to the simulator, which rebuilds the mesh if the level actually changed.
func (f *MeshField) SetProfile(profile domain.QualityProfile) {
	f.mu.Lock()
	f.profile = profile
	f.mu.Unlock()

	f.raster.Refresh()
}

// Reset clears the stored spectrum so the mesh settles back to rest.
func (f *MeshField) Reset() {
	f.mu.Lock()
	f.magnitudes = nil
	f.mu.Unlock()

	f.raster.Refresh()
}

// draw is the raster generator function. It times itself rather than the
// interval between frames: the refresh cadence is owned by the spectrum
// source, and a 30fps tick would sit above the adaptive controller's high
// water permanently even when rendering is cheap.
func (f *MeshField) draw(w, h int) image.Image {
	start := time.Now()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillBackground(img)

	if w == 0 || h == 0 {
		return img
	}

	f.mu.RLock()
	magnitudes := f.magnitudes
	profile := f.profile
	f.mu.RUnlock()

	f.sim.SubmitFrame(magnitudes, float64(w), float64(h), spectrumBars, profile)
	snap := f.sim.Snapshot()

	if snap.NodeCount() > 0 {
		if profile.ConnectionLines {
			f.drawConnections(img, snap)
		}
		f.drawNodes(img, snap)
	}

	if f.observe != nil {
		f.observe(time.Since(start))
	}
	return img
}

// drawConnections renders the lattice edges. Right and down neighbors cover
// every cardinal edge exactly once; the diagonal springs stay invisible so
// high quality does not double the line count.
func (f *MeshField) drawConnections(img *image.RGBA, snap domain.MeshSnapshot) {
	for r := 0; r < snap.Rows; r++ {
		for c := 0; c < snap.Cols; c++ {
			i := r*snap.Cols + c
			if c+1 < snap.Cols {
				f.drawEdge(img, snap, i, i+1)
			}
			if r+1 < snap.Rows {
				f.drawEdge(img, snap, i, i+snap.Cols)
			}
		}
	}
}

func (f *MeshField) drawEdge(img *image.RGBA, snap domain.MeshSnapshot, a, b int) {
	bright := (snap.Brightness[a] + snap.Brightness[b]) / 2
	drawLine(img,
		int(snap.Positions[a].X), int(snap.Positions[a].Y),
		int(snap.Positions[b].X), int(snap.Positions[b].Y),
		lineColor(bright))
}

// drawNodes renders each node as a small square, bigger and hotter with
// displacement.
func (f *MeshField) drawNodes(img *image.RGBA, snap domain.MeshSnapshot) {
	for i, p := range snap.Positions {
		bright := snap.Brightness[i]
		size := 1
		if bright > 0.3 {
			size = 2
		}
		fillRect(img, int(p.X), int(p.Y), size, nodeColor(bright))
	}
}

var backgroundColor = color.RGBA{R: 8, G: 10, B: 18, A: 255}

func fillBackground(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			row[x] = backgroundColor.R
			row[x+1] = backgroundColor.G
			row[x+2] = backgroundColor.B
			row[x+3] = backgroundColor.A
		}
	}
}

// nodeColor maps brightness onto a cold-to-hot ramp: dim teal at rest,
// white at full displacement.
func nodeColor(bright float64) color.RGBA {
	if bright < 0 {
		bright = 0
	} else if bright > 1 {
		bright = 1
	}
	return color.RGBA{
		R: uint8(40 + 215*bright),
		G: uint8(150 + 105*bright),
		B: uint8(200 + 55*bright),
		A: 255,
	}
}

// lineColor is the node ramp dimmed so edges never outshine the nodes.
func lineColor(bright float64) color.RGBA {
	c := nodeColor(bright)
	return color.RGBA{
		R: uint8(float64(c.R) * 0.35),
		G: uint8(float64(c.G) * 0.35),
		B: uint8(float64(c.B) * 0.35),
		A: 255,
	}
}

// fillRect draws a (2*size+1) square centered on (cx, cy), clipped to the
// image bounds.
func fillRect(img *image.RGBA, cx, cy, size int, col color.RGBA) {
	b := img.Bounds()
	for y := cy - size; y <= cy+size; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for x := cx - size; x <= cx+size; x++ {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			img.SetRGBA(x, y, col)
		}
	}
}

// drawLine draws a clipped line using integer DDA. Mesh edges are short, so
// the per-pixel bounds check costs little.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		setPixel(img, x0, y0, col)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		setPixel(img, x, y, col)
	}
}

func setPixel(img *image.RGBA, x, y int, col color.RGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	img.SetRGBA(x, y, col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ ports.MeshView = (*MeshField)(nil)
