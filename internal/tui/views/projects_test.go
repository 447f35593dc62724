package views_test

import (
	"testing"

	"github.com/JJeris/blendio/internal/domain"
	"github.com/JJeris/blendio/internal/tui"
	"github.com/JJeris/blendio/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProjects() []domain.ProjectFile {
	return []domain.ProjectFile{
		{Record: domain.Record{ID: "p1"}, FileName: "scene.blend", FilePath: "/work/scene.blend", AssociatedSeriesJSON: `["4.1","4.2"]`},
		{Record: domain.Record{ID: "p2"}, FileName: "rig.blend", FilePath: "/work/rig.blend"},
	}
}

func TestProjects_InitialState(t *testing.T) {
	model := views.NewProjects(tui.NewKeyMap("vim"), testProjects())

	assert.Equal(t, 2, model.Count())
	view := model.View()
	assert.Contains(t, view, "scene.blend")
	assert.Contains(t, view, "Series: 4.1, 4.2")
}

func TestProjects_Actions(t *testing.T) {
	tests := []struct {
		name  string
		key   tea.KeyMsg
		check func(t *testing.T, msg tea.Msg)
	}{
		{"open", tea.KeyMsg{Type: tea.KeyEnter}, func(t *testing.T, msg tea.Msg) {
			m, ok := msg.(views.OpenProjectMsg)
			require.True(t, ok)
			assert.Equal(t, "p2", m.Project.ID)
		}},
		{"reveal", key("o"), func(t *testing.T, msg tea.Msg) {
			_, ok := msg.(views.RevealProjectMsg)
			assert.True(t, ok)
		}},
		{"archive", key("a"), func(t *testing.T, msg tea.Msg) {
			_, ok := msg.(views.ArchiveProjectMsg)
			assert.True(t, ok)
		}},
		{"remove", key("d"), func(t *testing.T, msg tea.Msg) {
			m, ok := msg.(views.RemoveProjectMsg)
			require.True(t, ok)
			assert.Equal(t, "/work/rig.blend", m.Project.FilePath)
		}},
		{"refresh", key("r"), func(t *testing.T, msg tea.Msg) {
			_, ok := msg.(views.RefreshProjectsMsg)
			assert.True(t, ok)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := views.NewProjects(tui.NewKeyMap("vim"), testProjects())
			newModel, _ := model.Update(key("j"))

			_, cmd := newModel.Update(tt.key)
			require.NotNil(t, cmd)
			tt.check(t, cmd())
		})
	}
}

func TestProjects_EmptyList(t *testing.T) {
	model := views.NewProjects(tui.NewKeyMap("vim"), nil)

	_, cmd := model.Update(key("a"))
	assert.Nil(t, cmd)

	// refresh still works with nothing tracked
	_, cmd = model.Update(key("r"))
	require.NotNil(t, cmd)
	assert.Contains(t, model.View(), "No project files tracked")
}
