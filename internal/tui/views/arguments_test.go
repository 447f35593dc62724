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

func testArguments() []domain.LaunchArgument {
	return []domain.LaunchArgument{
		{Record: domain.Record{ID: "a1"}, ArgumentString: "--factory-startup"},
		{Record: domain.Record{ID: "a2"}, ArgumentString: "--no-window-focus", IsDefault: true},
	}
}

func TestArguments_CreateNew(t *testing.T) {
	model := views.NewArguments(tui.NewKeyMap("vim"), testArguments())

	newModel, _ := model.Update(key("n"))
	updated := newModel.(views.Arguments)
	require.True(t, updated.IsEditing())
	assert.Contains(t, updated.View(), "New arguments")

	newModel, _ = updated.Update(key("  --debug "))
	_, cmd := newModel.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(views.AddArgumentMsg)
	require.True(t, ok)
	assert.Equal(t, "--debug", msg.Text)
}

func TestArguments_EnterOnBlankInputStaysEditing(t *testing.T) {
	model := views.NewArguments(tui.NewKeyMap("vim"), nil)

	newModel, _ := model.Update(key("n"))
	newModel, cmd := newModel.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, newModel.(views.Arguments).IsEditing())
}

func TestArguments_EscCancels(t *testing.T) {
	model := views.NewArguments(tui.NewKeyMap("vim"), testArguments())

	newModel, _ := model.Update(key("n"))
	newModel, _ = newModel.Update(key("--x"))
	newModel, cmd := newModel.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.False(t, newModel.(views.Arguments).IsEditing())

	// navigation works again
	newModel, _ = newModel.Update(key("j"))
	assert.Equal(t, 1, newModel.(views.Arguments).Selected())
}

func TestArguments_ToggleDefaultAndRemove(t *testing.T) {
	model := views.NewArguments(tui.NewKeyMap("vim"), testArguments())
	newModel, _ := model.Update(key("j"))

	_, cmd := newModel.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	def, ok := cmd().(views.SetDefaultArgumentMsg)
	require.True(t, ok)
	assert.Equal(t, "a2", def.Argument.ID)
	assert.False(t, def.Default)

	_, cmd = newModel.Update(key("d"))
	require.NotNil(t, cmd)
	rm, ok := cmd().(views.RemoveArgumentMsg)
	require.True(t, ok)
	assert.Equal(t, "a2", rm.Argument.ID)
}

func TestArguments_EmptyList(t *testing.T) {
	model := views.NewArguments(tui.NewKeyMap("vim"), nil)
	assert.Contains(t, model.View(), "No launch arguments saved")
	assert.Nil(t, model.SelectedArgument())
}
