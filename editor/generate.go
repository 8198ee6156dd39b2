package editor

import (
	"context"
	"errors"
	"math"

	"muse/graph"
	"muse/ideas"
)

// ErrGenerationInFlight is returned when a generation request is rejected
// because one is already outstanding. Requests are rejected, not queued.
var ErrGenerationInFlight = errors.New("generation already in flight")

// ErrNoGenerationSource is returned when generation is requested without
// exactly one selected source node.
var ErrNoGenerationSource = errors.New("select a single node to generate from")

// Generating reports whether a generation request is outstanding.
func (e *Editor) Generating() bool { return e.generating }

// Completions is the channel asynchronous generation results arrive on. The
// host's event loop must receive from it and pass each value to Apply on the
// mutation goroutine.
func (e *Editor) Completions() <-chan ideas.Completion { return e.completions }

// Generate fans out one request per model for the selected node. It returns
// immediately; results arrive via Completions. Interaction is never blocked
// by an outstanding request, and there is no cancellation.
func (e *Editor) Generate(svc ideas.Service, models []string) error {
	if e.generating {
		return ErrGenerationInFlight
	}
	ids := e.SelectedIDs()
	if len(ids) != 1 {
		return ErrNoGenerationSource
	}
	src := e.graph.Find(ids[0])
	if src == nil {
		return ErrNoGenerationSource
	}

	var contexts []string
	for _, n := range e.graph.Neighbors(src.ID) {
		contexts = append(contexts, n.Text)
	}

	e.generating = true
	e.generateSrc = src.ID
	e.status = "generating…"
	e.markDirty()

	source := src.Text
	go ideas.FanOut(context.Background(), svc, source, contexts, models, e.completions)
	return nil
}

// Apply integrates one generation completion. It must run on the mutation
// goroutine. A failure surfaces a message without touching the graph; a
// success creates one node laid out around the source plus a connection —
// unless the source was deleted while the request was in flight, which is
// skipped silently.
func (e *Editor) Apply(c ideas.Completion) {
	if c.Done {
		e.generating = false
		e.markDirty()
		return
	}

	if c.Err != nil {
		var genErr *ideas.Error
		if errors.As(c.Err, &genErr) {
			e.status = genErr.Reason.Message()
		} else {
			e.status = "generation failed"
		}
		e.logger.Warn("generation failed", "model", c.Model, "err", c.Err)
		e.markDirty()
		return
	}

	src := e.graph.Find(e.generateSrc)
	if src == nil {
		e.logger.Debug("generation source deleted mid-flight, skipping", "model", c.Model)
		return
	}
	center := src.Center()
	srcID := src.ID

	e.history.Push(e.graph)

	// Place results on a circle around the source.
	angle := 2 * math.Pi * float64(c.Index) / float64(max(c.Total, 1))
	x := center.X + generateRadius*math.Cos(angle) - graph.DefaultWidth/2
	y := center.Y + generateRadius*math.Sin(angle) - graph.MinHeight/2

	n := e.graph.AddNode(c.Text, x, y)
	n.Source = c.Model
	e.autoHeight(n)
	e.graph.Connect(srcID, n.ID)

	e.status = "idea from " + c.Model
	e.committed()
}
