package publisher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"auto_article_writer/agents"
)

var fixedTime = time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC)

func TestSafeName(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"AI & the Future!", "AI_the_Future"},
		{"Go 1.24 release notes", "Go_124_release_notes"},
		{"  leading and trailing  ", "__leading_and_trailing"},
		{"state-of-the-art", "state-of-the-art"},
		{"!!!", ""},
		{"Café déjà vu", "Café_déjà_vu"},
		{"x² and ½ cup", "x²_and_½_cup"},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeName(tt.topic))
		})
	}
}

func TestSafeName_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		topic := rapid.String().Draw(rt, "topic")
		name := SafeName(topic)
		for _, r := range name {
			if !(unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_') {
				rt.Fatalf("unexpected rune %q in %q", r, name)
			}
		}
		assert.False(rt, strings.HasSuffix(name, "_"), "trailing whitespace must be trimmed before replacement")
	})
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "AI_the_Future_20250307_140509.md", Filename("AI & the Future!", fixedTime))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "The Future Of Renewable Energy", TitleCase("the future of renewable energy"))
	assert.Equal(t, "Ai & The Future!", TitleCase("AI & the Future!"))
}

func TestCompose(t *testing.T) {
	withImage := Compose("space travel", "Body text.", "https://img.example/c.png")
	assert.Equal(t, "# Space Travel\n\n![space travel](https://img.example/c.png)\n\nBody text.", withImage)

	noImage := Compose("space travel", "Body text.", "")
	assert.Equal(t, "# Space Travel\n\nBody text.", noImage)
}

func TestAssembler_Assemble(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "outputs")
	a := NewAssembler(root, nil).WithClock(func() time.Time { return fixedTime })

	art, err := a.Assemble("AI & the Future!", "Polished.", "https://img.example/x.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "AI_the_Future_20250307_140509.md"), art.Path)
	assert.Equal(t, "Ai & The Future!", art.Title)

	onDisk, err := Load(art.Path)
	require.NoError(t, err)
	assert.Equal(t, art.Content, onDisk)

	// directory creation is idempotent
	_, err = a.Assemble("second", "Body", "")
	require.NoError(t, err)
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAssembler_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	a := NewAssembler(blocker, nil).WithClock(func() time.Time { return fixedTime })
	art, err := a.Assemble("topic", "Body", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, agents.ErrIOError)
	require.NotNil(t, art)
	assert.Equal(t, "# Topic\n\nBody", art.Content)
}
