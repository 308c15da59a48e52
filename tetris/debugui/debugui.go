// Package debugui provides Dear ImGui panels for inspecting a running session:
// scheduler timings, score and statistics, and a textual view of the grid.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/tetris"
)

// InputState mirrors Dear ImGui's input capture flags for the current frame.
// Hosts should not forward keys to the session while WantCaptureKeyboard is set.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Inspector renders every panel for one session.
type Inspector struct {
	session     *tetris.Session
	performance PerformanceStats
	stats       SessionPanel
	grid        GridView
	input       InputState
}

// NewInspector creates an inspector keeping historyFrames frame times.
func NewInspector(session *tetris.Session, historyFrames int) *Inspector {
	return &Inspector{
		session:     session,
		performance: NewPerformanceStats(historyFrames),
		grid:        GridView{Shadow: true},
	}
}

// Render draws all panels. It must be called between the backend's BeginFrame
// and EndFrame.
func (i *Inspector) Render(deltaTime float32) {
	io := imgui.CurrentIO()
	i.input.WantCaptureMouse = io.WantCaptureMouse()
	i.input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	i.performance.Render(i.session, deltaTime)
	i.stats.Render(i.session)
	i.grid.Render(i.session)
}

// Input returns the capture flags sampled by the last Render.
func (i *Inspector) Input() InputState {
	return i.input
}
