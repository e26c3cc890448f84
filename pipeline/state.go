package pipeline

import (
	"time"

	"auto_article_writer/publisher"
)

// State is a position in the run state machine.
type State string

const (
	StateStart            State = "start"
	StateOutlineGenerated State = "outline_generated"
	StateSectionsWritten  State = "sections_written"
	StateReviewed         State = "reviewed"
	StateImageAttempted   State = "image_attempted"
	StateAssembled        State = "assembled"
	StateHalted           State = "halted"
)

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateAssembled || s == StateHalted
}

// Transition 记录一次状态迁移。
type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
}

// Report is everything a single run produced.
type Report struct {
	ID          string             `json:"id"`
	Topic       string             `json:"topic"`
	State       State              `json:"state"`
	Transitions []Transition       `json:"transitions"`
	Outline     []string           `json:"outline,omitempty"`
	Sections    []string           `json:"sections,omitempty"`
	Polished    string             `json:"polished,omitempty"`
	ImageRef    string             `json:"image_ref,omitempty"`
	Article     *publisher.Article `json:"article,omitempty"`
	HaltReason  string             `json:"halt_reason,omitempty"`
	// Message is the caller-facing text on a halt.
	Message string `json:"message,omitempty"`
	// Degraded lists the stages that fell back to placeholder content.
	Degraded []string `json:"degraded,omitempty"`
}

// Document returns the final document text, or the halt message.
func (r *Report) Document() string {
	if r.Article != nil {
		return r.Article.Content
	}
	return r.Message
}

func (r *Report) moveTo(to State, at time.Time) {
	r.Transitions = append(r.Transitions, Transition{From: r.State, To: to, At: at})
	r.State = to
}
