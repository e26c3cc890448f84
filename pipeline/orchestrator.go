// Package pipeline sequences the generation stages into one article run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"auto_article_writer/agents"
	"auto_article_writer/publisher"
)

// User-visible fallback texts.
const (
	HaltMessage        = "Halting process: Could not generate an outline."
	SectionPlaceholder = "Error: Could not generate content for this section."
	ReviewPlaceholder  = "Error: Could not review the content."

	haltNoOutline   = "no outline produced"
	haltPersistence = "article could not be saved"
	imageStyle      = ", digital art style"
	previewLen      = 500
)

var ErrEmptyTopic = errors.New("please provide a topic")

// OutlineStage produces the section list for a topic.
type OutlineStage interface {
	Run(ctx context.Context, topic string) ([]string, error)
}

// TextStage turns one text input into one text output.
type TextStage interface {
	Run(ctx context.Context, input string) (string, error)
}

// ArtifactWriter persists the assembled article.
type ArtifactWriter interface {
	Assemble(topic, body, imageRef string) (*publisher.Article, error)
}

// Stages wires the workers of one pipeline.
type Stages struct {
	Outliner   OutlineStage
	Writer     TextStage
	Reviewer   TextStage
	ImageMaker TextStage
	Assembler  ArtifactWriter
}

// Options tune an Orchestrator; the zero value runs fully sequentially.
type Options struct {
	// Parallelism > 1 writes up to that many sections at once.
	Parallelism int
	Metrics     *Metrics
	Logger      *zap.Logger
}

// Orchestrator runs Stages as a forward-only state machine.
type Orchestrator struct {
	stages      Stages
	parallelism int
	metrics     *Metrics
	logger      *zap.Logger
	now         func() time.Time
}

func New(stages Stages, opts Options) (*Orchestrator, error) {
	switch {
	case stages.Outliner == nil:
		return nil, errors.New("pipeline: outliner is required")
	case stages.Writer == nil:
		return nil, errors.New("pipeline: section writer is required")
	case stages.Reviewer == nil:
		return nil, errors.New("pipeline: reviewer is required")
	case stages.ImageMaker == nil:
		return nil, errors.New("pipeline: image maker is required")
	case stages.Assembler == nil:
		return nil, errors.New("pipeline: assembler is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		stages:      stages,
		parallelism: opts.Parallelism,
		metrics:     opts.Metrics,
		logger:      logger.With(zap.String("component", "orchestrator")),
		now:         time.Now,
	}, nil
}

// RunPipeline returns the final document text. On an outline halt it returns
// the halt message with a nil error; a failed write returns the document and the error.
func (o *Orchestrator) RunPipeline(ctx context.Context, topic string) (string, error) {
	rep, err := o.Run(ctx, topic)
	if rep == nil {
		return "", err
	}
	return rep.Document(), err
}

// Run executes one full pipeline run and reports every intermediate result.
func (o *Orchestrator) Run(ctx context.Context, topic string) (*Report, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}
	started := o.now()
	rep := &Report{ID: uuid.NewString(), Topic: topic, State: StateStart}
	log := o.logger.With(zap.String("run_id", rep.ID))
	defer func() {
		if rep.State.Terminal() {
			o.metrics.observeRun(rep.State, o.now().Sub(started).Seconds())
		}
	}()
	log.Info("run started", zap.String("topic", topic))

	if err := o.checkpoint(ctx, rep, log); err != nil {
		return rep, err
	}
	var outline []string
	err := o.timed("outline", func() error {
		var err error
		outline, err = o.stages.Outliner.Run(ctx, topic)
		return err
	})
	if err != nil {
		if cerr := o.checkpoint(ctx, rep, log); cerr != nil {
			return rep, cerr
		}
	}
	if err != nil || len(outline) == 0 {
		if err == nil {
			log.Warn("outline is empty")
		}
		o.halt(rep, haltNoOutline, HaltMessage, log)
		return rep, nil
	}
	rep.Outline = outline
	o.advance(rep, StateOutlineGenerated, log, zap.Strings("outline", outline))

	if err := o.checkpoint(ctx, rep, log); err != nil {
		return rep, err
	}
	rep.Sections = o.writeSections(ctx, rep, outline)
	fullDraft := strings.Join(rep.Sections, "\n\n")
	o.advance(rep, StateSectionsWritten, log, zap.String("preview", preview(fullDraft)))

	if err := o.checkpoint(ctx, rep, log); err != nil {
		return rep, err
	}
	err = o.timed("review", func() error {
		var err error
		rep.Polished, err = o.stages.Reviewer.Run(ctx, fullDraft)
		return err
	})
	if err != nil {
		rep.Polished = ReviewPlaceholder
		rep.Degraded = append(rep.Degraded, "review")
	}
	o.advance(rep, StateReviewed, log, zap.String("preview", preview(rep.Polished)))

	if err := o.checkpoint(ctx, rep, log); err != nil {
		return rep, err
	}
	err = o.timed("image", func() error {
		var err error
		rep.ImageRef, err = o.stages.ImageMaker.Run(ctx, topic+imageStyle)
		return err
	})
	if err != nil {
		rep.ImageRef = ""
		rep.Degraded = append(rep.Degraded, "image")
	}
	o.advance(rep, StateImageAttempted, log, zap.String("image", rep.ImageRef))

	if err := o.checkpoint(ctx, rep, log); err != nil {
		return rep, err
	}
	err = o.timed("assemble", func() error {
		var err error
		rep.Article, err = o.stages.Assembler.Assemble(topic, rep.Polished, rep.ImageRef)
		return err
	})
	if err != nil {
		o.halt(rep, haltPersistence, "", log)
		return rep, fmt.Errorf("save article: %w", err)
	}
	o.advance(rep, StateAssembled, log, zap.String("path", rep.Article.Path), zap.Strings("degraded", rep.Degraded))
	return rep, nil
}

func (o *Orchestrator) writeSections(ctx context.Context, rep *Report, outline []string) []string {
	drafts := make([]string, len(outline))
	failed := make([]bool, len(outline))
	write := func(i int) {
		err := o.timed("section", func() error {
			var err error
			drafts[i], err = o.stages.Writer.Run(ctx, outline[i])
			return err
		})
		if err != nil {
			drafts[i] = SectionPlaceholder
			failed[i] = true
		}
	}

	if o.parallelism > 1 {
		var g errgroup.Group
		g.SetLimit(o.parallelism)
		for i := range outline {
			g.Go(func() error {
				write(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range outline {
			write(i)
		}
	}

	for i, f := range failed {
		if f {
			rep.Degraded = append(rep.Degraded, fmt.Sprintf("section[%d]", i))
		}
	}
	return drafts
}

func (o *Orchestrator) timed(stage string, fn func() error) error {
	start := o.now()
	err := fn()
	outcome := "ok"
	if err != nil {
		outcome = "failed"
		var f *agents.Failure
		if errors.As(err, &f) && f.Fatal() {
			o.logger.Error("stage failed", zap.String("stage", stage), zap.Error(err))
		} else {
			o.logger.Warn("stage failed", zap.String("stage", stage), zap.Error(err))
		}
	}
	o.metrics.observeStage(stage, outcome, o.now().Sub(start).Seconds())
	return err
}

func (o *Orchestrator) checkpoint(ctx context.Context, rep *Report, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		o.halt(rep, "canceled", "", log)
		return err
	}
	return nil
}

func (o *Orchestrator) advance(rep *Report, to State, log *zap.Logger, fields ...zap.Field) {
	rep.moveTo(to, o.now())
	log.Info("stage complete", append([]zap.Field{zap.String("state", string(to))}, fields...)...)
}

func (o *Orchestrator) halt(rep *Report, reason, message string, log *zap.Logger) {
	rep.HaltReason = reason
	rep.Message = message
	rep.moveTo(StateHalted, o.now())
	log.Error("run halted", zap.String("reason", reason))
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}
