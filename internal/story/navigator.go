// internal/story/navigator.go
package story

import (
	"net/url"
	"strconv"
)

const (
	ChapterCount   = 8
	FormChapter    = ChapterCount - 1
	TotalFormSteps = 8
)

// Navigator is the story's view state. The zero value is the first chapter
// with the form on step 1.
type Navigator struct {
	chapter  int
	formStep int
}

func NewNavigator() *Navigator {
	return &Navigator{formStep: 1}
}

// FromQuery restores state from ?chapter=&step=. Missing or malformed values
// fall back to the initial state; out-of-range values are clamped.
func FromQuery(q url.Values) *Navigator {
	n := NewNavigator()
	if v, err := strconv.Atoi(q.Get("chapter")); err == nil {
		n.GoTo(v)
	}
	if n.OnForm() {
		if v, err := strconv.Atoi(q.Get("step")); err == nil {
			n.formStep = clamp(v, 1, TotalFormSteps)
		}
	}
	return n
}

// Query encodes the state. step is only written on the form chapter.
func (n *Navigator) Query() url.Values {
	q := url.Values{}
	q.Set("chapter", strconv.Itoa(n.Chapter()))
	if n.OnForm() {
		q.Set("step", strconv.Itoa(n.FormStep()))
	}
	return q
}

func (n *Navigator) Chapter() int { return n.chapter }

func (n *Navigator) FormStep() int {
	if n.formStep < 1 {
		return 1
	}
	return n.formStep
}

func (n *Navigator) OnForm() bool { return n.chapter == FormChapter }

// GoTo jumps to chapter i clamped into range. Leaving the form resets it.
func (n *Navigator) GoTo(i int) {
	n.chapter = clamp(i, 0, ChapterCount-1)
	if !n.OnForm() {
		n.formStep = 1
	}
}

// Next advances one chapter, or one form step on the form chapter.
func (n *Navigator) Next() {
	if n.OnForm() {
		if n.FormStep() < TotalFormSteps {
			n.formStep = n.FormStep() + 1
		}
		return
	}
	n.GoTo(n.chapter + 1)
}

// Back retreats one chapter, or one form step. Step 1 of the form returns
// to the chapter before it.
func (n *Navigator) Back() {
	if n.OnForm() {
		if n.FormStep() > 1 {
			n.formStep = n.FormStep() - 1
			return
		}
		n.GoTo(FormChapter - 1)
		return
	}
	n.GoTo(n.chapter - 1)
}

// Progress is the form completion percentage, zero outside the form.
func (n *Navigator) Progress() float64 {
	if !n.OnForm() {
		return 0
	}
	return float64(n.FormStep()) / TotalFormSteps * 100
}

// StatusProgress is the status-bar fill for the current chapter.
func (n *Navigator) StatusProgress() float64 {
	return float64(n.chapter+1) / ChapterCount * 100
}

func (n *Navigator) IsFinalStep() bool {
	return n.OnForm() && n.FormStep() == TotalFormSteps
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
