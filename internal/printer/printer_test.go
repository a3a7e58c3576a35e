package printer

import (
	"bytes"
	"strings"
	"testing"

	"habits/internal/habit"
	"habits/internal/i18n"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func newTestPrinter(t *testing.T) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	i18n.Init("en")
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	var out, errOut bytes.Buffer
	return New(&out, &errOut), &out, &errOut
}

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		p, _, errOut := newTestPrinter(t)
		err := p.Error("Test Error", "This is a test error", nil)
		require.Error(t, err)
		require.Equal(t, "Test Error", err.Error())
		require.Contains(t, errOut.String(), "This is a test error")
	})

	t.Run("lists multiple suggestions", func(t *testing.T) {
		p, out, errOut := newTestPrinter(t)
		err := p.Error("Test Error", "Explanation", []string{"First option", "Second option"})
		require.Equal(t, "Test Error", err.Error())
		require.Contains(t, errOut.String(), "  1. First option")
		require.Contains(t, errOut.String(), "  2. Second option")
		require.Empty(t, out.String())
	})
}

func TestMessages(t *testing.T) {
	p, out, _ := newTestPrinter(t)
	p.Success("Created %s", "Read")
	p.Warning("ignored")
	p.Info("plain %d", 3)
	require.Equal(t, "✓ Created Read\n⚠ ignored\nplain 3\n", out.String())
}

func TestRaw_AppendsNewline(t *testing.T) {
	p, out, _ := newTestPrinter(t)
	require.NoError(t, p.Raw([]byte("[]")))
	require.NoError(t, p.Raw([]byte("{}\n")))
	require.Equal(t, "[]\n{}\n", out.String())
}

func TestFormatGrid(t *testing.T) {
	i18n.Init("en")
	window := []string{"2026-10-12", "2026-10-13", "2026-10-14"}
	habits := []habit.Habit{
		{ID: 11, Name: "Read", Completions: habit.Completions{"2026-10-13": {}, "2026-10-14": {}}, Streak: 2},
		{ID: 12, Name: "Walk", Completions: habit.Completions{}},
	}

	got := FormatGrid(habits, window)
	lines := strings.Split(got, "\n")
	var readLine, walkLine string
	for _, l := range lines {
		if strings.Contains(l, "Read") {
			readLine = l
		}
		if strings.Contains(l, "Walk") {
			walkLine = l
		}
	}
	require.NotEmpty(t, readLine, got)
	require.NotEmpty(t, walkLine, got)
	require.Contains(t, got, "10-14")
	require.Equal(t, 2, strings.Count(readLine, markDone))
	require.Equal(t, 1, strings.Count(readLine, markMissing))
	require.Equal(t, 3, strings.Count(walkLine, markMissing))
	require.Contains(t, readLine, "11")
}

func TestFormatGrid_Empty(t *testing.T) {
	i18n.Init("en")
	require.Equal(t, "No habits yet.", FormatGrid(nil, []string{"2026-10-14"}))
}
