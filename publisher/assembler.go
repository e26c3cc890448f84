package publisher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"auto_article_writer/agents"
)

const (
	// DefaultOutputDir is used when no output root is configured.
	DefaultOutputDir = "outputs"
	timestampLayout  = "20060102_150405"
	fileExt          = ".md"
)

// Article is the final assembled document.
type Article struct {
	Topic     string    `json:"topic"`
	Title     string    `json:"title"`
	ImageRef  string    `json:"image_ref,omitempty"`
	Body      string    `json:"-"`
	Content   string    `json:"content"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Assembler writes finished articles under a root directory.
type Assembler struct {
	root   string
	now    func() time.Time
	logger *zap.Logger
}

func NewAssembler(root string, logger *zap.Logger) *Assembler {
	if root == "" {
		root = DefaultOutputDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{root: root, now: time.Now, logger: logger.With(zap.String("component", "assembler"))}
}

// WithClock replaces the time source used for filenames.
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Assemble composes the document and writes it exactly once. The returned
// article always carries the composed content, even when the write fails.
func (a *Assembler) Assemble(topic, body, imageRef string) (*Article, error) {
	created := a.now()
	art := &Article{
		Topic:     topic,
		Title:     TitleCase(topic),
		ImageRef:  imageRef,
		Body:      body,
		Content:   Compose(topic, body, imageRef),
		Path:      filepath.Join(a.root, Filename(topic, created)),
		CreatedAt: created,
	}

	if err := os.MkdirAll(a.root, 0o755); err != nil {
		return art, ioFailure(err)
	}
	if err := os.WriteFile(art.Path, []byte(art.Content), 0o644); err != nil {
		a.logger.Error("write article failed", zap.String("path", art.Path), zap.Error(err))
		return art, ioFailure(err)
	}
	a.logger.Info("article saved", zap.String("path", art.Path), zap.Int("bytes", len(art.Content)))
	return art, nil
}

func ioFailure(err error) error {
	return &agents.Failure{Kind: agents.KindIOError, Stage: "assemble", Err: err}
}

// Compose lays out heading, optional cover image and body.
func Compose(topic, body, imageRef string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", TitleCase(topic)))
	if imageRef != "" {
		sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", topic, imageRef))
	}
	sb.WriteString(body)
	return sb.String()
}

// SafeName keeps letters, numbers, spaces and hyphens, trims trailing
// whitespace and turns spaces into underscores.
func SafeName(topic string) string {
	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' {
			return r
		}
		return -1
	}, topic)
	kept = strings.TrimRightFunc(kept, unicode.IsSpace)
	return strings.ReplaceAll(kept, " ", "_")
}

// Filename is SafeName plus a second-resolution timestamp.
func Filename(topic string, t time.Time) string {
	return fmt.Sprintf("%s_%s%s", SafeName(topic), t.Format(timestampLayout), fileExt)
}

// TitleCase upper-cases the first letter of each word and lower-cases the rest.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// Load reads a persisted article back.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
