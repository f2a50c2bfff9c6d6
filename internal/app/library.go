package app

import (
	"errors"
	"sort"

	"github.com/coreman2200/motionrig/internal/clip"
	diag "github.com/coreman2200/motionrig/internal/diagnostics"
	"github.com/coreman2200/motionrig/internal/motion"
)

var ErrUnknownMotion = errors.New("app: unknown motion")

var ErrUnknownExpression = errors.New("app: unknown expression")

// Library maps names to shared clips and expression definitions.
type Library struct {
	clips       map[string]*clip.Clip
	expressions map[string]expressionDef
}

type expressionDef struct {
	fadeIn, fadeOut float64
	params          []motion.ExpressionParameter
}

func NewLibrary() *Library {
	return &Library{clips: map[string]*clip.Clip{}, expressions: map[string]expressionDef{}}
}

// AddClip registers c under its name, replacing any previous clip.
func (l *Library) AddClip(c *clip.Clip) {
	if c == nil {
		return
	}
	l.clips[c.Name()] = c
}

func (l *Library) AddExpression(name string, fadeIn, fadeOut float64, params []motion.ExpressionParameter) {
	p := make([]motion.ExpressionParameter, len(params))
	copy(p, params)
	l.expressions[name] = expressionDef{fadeIn: fadeIn, fadeOut: fadeOut, params: p}
}

func (l *Library) Clip(name string) (*clip.Clip, bool) { c, ok := l.clips[name]; return c, ok }

// Expression returns a new playable expression for name. Expressions carry
// playback state, so every call builds a fresh one.
func (l *Library) Expression(name string) (*motion.Expression, bool) {
	d, ok := l.expressions[name]
	if !ok {
		return nil, false
	}
	return motion.NewExpression(name, d.fadeIn, d.fadeOut, d.params), true
}

func (l *Library) Clips() []string { return sortedKeys(l.clips) }

func (l *Library) Expressions() []string { return sortedKeys(l.expressions) }

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Check runs clip.Check over every clip, tagging each finding with the
// clip name, in name order.
func (l *Library) Check() diag.List {
	var out diag.List
	for _, name := range l.Clips() {
		for _, d := range clip.Check(l.clips[name]) {
			if d.Evidence == nil {
				d.Evidence = map[string]any{}
			}
			d.Evidence["clip"] = name
			out = append(out, d)
		}
	}
	return out
}
