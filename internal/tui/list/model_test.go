package list

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(item string, selected bool) string {
	if selected {
		return "> " + item
	}
	return "  " + item
}

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item %d", i)
	}
	return out
}

func press(m *Model[string], keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "end":
			msg = tea.KeyMsg{Type: tea.KeyEnd}
		case "home":
			msg = tea.KeyMsg{Type: tea.KeyHome}
		case "pgdown":
			msg = tea.KeyMsg{Type: tea.KeyPgDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestModel_Navigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantSel    int
		wantOffset int
	}{
		{name: "start", keys: nil, wantSel: 0, wantOffset: 0},
		{name: "down twice", keys: []string{"down", "j"}, wantSel: 2, wantOffset: 0},
		{name: "scrolls past viewport", keys: []string{"down", "down", "down", "down"}, wantSel: 4, wantOffset: 2},
		{name: "up at top stays", keys: []string{"up", "k"}, wantSel: 0, wantOffset: 0},
		{name: "end", keys: []string{"end"}, wantSel: 9, wantOffset: 7},
		{name: "end then home", keys: []string{"end", "home"}, wantSel: 0, wantOffset: 0},
		{name: "page down", keys: []string{"pgdown"}, wantSel: 3, wantOffset: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(items(10), 3, 40, render)
			press(m, tt.keys...)
			assert.Equal(t, tt.wantSel, m.Selected())
			assert.Equal(t, tt.wantOffset, m.Offset())
		})
	}
}

func TestModel_View(t *testing.T) {
	m := New(items(10), 3, 40, render)
	press(m, "end")

	lines := strings.Split(m.View(), "\n")
	assert.Equal(t, []string{"  item 7", "  item 8", "> item 9"}, lines)

	empty := New[string](nil, 3, 40, render)
	assert.Empty(t, empty.View())
	_, ok := empty.SelectedItem()
	assert.False(t, ok)
}

func TestModel_SetItemsClampsCursor(t *testing.T) {
	m := New(items(10), 3, 40, render)
	press(m, "end")

	m.SetItems(items(4))
	assert.Equal(t, 3, m.Selected())
	item, ok := m.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "item 3", item)
	assert.Equal(t, 1, m.Offset())
}

func TestModel_WindowResize(t *testing.T) {
	m := New(items(10), 3, 40, render)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 0})
	assert.Equal(t, 1, m.Height())
	assert.Equal(t, 80, m.Width())
}
