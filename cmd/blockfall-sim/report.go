package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/tetris"
)

type Report struct {
	// Configuration
	Config    tetris.Config
	Games     int
	Frame     time.Duration
	MaxPieces int
	Realtime  bool

	// Results
	Results       []GameResult
	WallTime      time.Duration
	Lines         int
	Best          GameResult
	AvgLines      float64
	Clears        tetris.LineClears
	Pieces        []PieceCount
	TotalPieces   int
	Systems       []engine.SystemStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type PieceCount struct {
	Type  tetris.PieceType
	Count int
}

// Add accumulates one game's result.
func (r *Report) Add(result GameResult) {
	r.Results = append(r.Results, result)
	r.Lines += result.Lines
	if len(r.Results) == 1 || result.Lines > r.Best.Lines {
		r.Best = result
	}

	r.Clears.Single += result.Clears.Single
	r.Clears.Double += result.Clears.Double
	r.Clears.Triple += result.Clears.Triple
	r.Clears.Quadruple += result.Clears.Quadruple

	r.Systems = mergeSystemStats(r.Systems, result.Systems)
}

// Finalize derives averages and the piece distribution.
func (r *Report) Finalize() {
	if len(r.Results) > 0 {
		r.AvgLines = float64(r.Lines) / float64(len(r.Results))
	}

	r.Pieces = r.Pieces[:0]
	r.TotalPieces = 0
	for _, p := range tetris.PieceTypes {
		count := 0
		for _, result := range r.Results {
			count += result.PieceCounts[p]
		}
		r.Pieces = append(r.Pieces, PieceCount{Type: p, Count: count})
		r.TotalPieces += count
	}
}

// mergeSystemStats folds the per-system statistics of one session into the
// running totals. Systems are matched by position; every session registers
// the same systems in the same order.
func mergeSystemStats(total, next []engine.SystemStats) []engine.SystemStats {
	if len(total) == 0 {
		return append([]engine.SystemStats(nil), next...)
	}

	for i := range total {
		if i >= len(next) {
			break
		}
		t, n := &total[i], next[i]
		if n.ExecutionCount == 0 {
			continue
		}
		if t.ExecutionCount == 0 || n.MinDuration < t.MinDuration {
			t.MinDuration = n.MinDuration
		}
		if n.MaxDuration > t.MaxDuration {
			t.MaxDuration = n.MaxDuration
		}
		t.ExecutionCount += n.ExecutionCount
		t.TotalDuration += n.TotalDuration
		t.LastDuration = n.LastDuration
		t.AvgDuration = t.TotalDuration / time.Duration(t.ExecutionCount)
	}
	return total
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Blockfall Simulation Report

## Configuration
- **Games:** {{.Games}}
- **Grid:** {{.Config.Width}}x{{.Config.Height}}
- **Gravity Interval:** {{.Config.GravityInterval}}
- **Auto-shift:** {{.Config.DASDelay}} delay, {{.Config.DASInterval}} interval
- **Frame:** {{.Frame}}{{if .Realtime}} (wall clock){{else}} (simulated){{end}}
- **Piece Limit:** {{.MaxPieces}}

## Results
- **Games Played:** {{len .Results}}
- **Total Lines:** {{.Lines}}
- **Average Lines:** {{printf "%.2f" .AvgLines}}
{{- if .Results}}
- **Best Game:** #{{.Best.Game}} (seed {{.Best.Seed}}) with {{.Best.Lines}} lines
{{- end}}
- **Wall Time:** {{.WallTime}}

| Game | Seed | Lines | Locked | Drawn | Game Time | Pieces/s | Ended |
|---|---|---|---|---|---|---|---|
{{range .Results}}| {{.Game}} | {{.Seed}} | {{.Lines}} | {{.Locked}} | {{.Drawn}} | {{.GameTime}} | {{printf "%.2f" .PiecesPerS}} | {{.Ended}} |
{{end}}
## Line Clears
- single: {{.Clears.Single}}
- double: {{.Clears.Double}}
- triple: {{.Clears.Triple}}
- quadruple: {{.Clears.Quadruple}}

## Piece Distribution
{{range .Pieces}}- {{.Type}}: {{.Count}} ({{pct .Count $.TotalPieces}})
{{end}}
## Systems
{{range .Systems}}- **{{.Name}}:** {{.ExecutionCount}} runs, avg {{.AvgDuration}}, min {{.MinDuration}}, max {{.MaxDuration}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

	fm := template.FuncMap{
		"pct": func(n, total int) string {
			if total == 0 {
				return "0.0%"
			}
			return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
