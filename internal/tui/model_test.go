package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/appclient/internal/actions"
	"github.com/studiowebux/appclient/internal/history"
)

const waitFor = 2 * time.Second

func TestNew_InitializesState(t *testing.T) {
	m := CreateTestModel(t, newTestServer(t))

	assert.Equal(t, ModeNormal, m.mode)
	assert.Len(t, m.ring, 12)
	assert.Equal(t, focusItem{kind: focusInput, id: actions.InputName}, m.focused())
	assert.True(t, m.inputs[actions.InputName].Focused())

	for _, act := range actions.All() {
		assert.Equal(t, 1, m.page.Element(act.Control).Listeners(), act.Control)
	}
}

func TestCleanup_UnbindsControls(t *testing.T) {
	m := CreateTestModel(t, newTestServer(t))

	m.Cleanup()
	m.Cleanup()

	assert.Equal(t, 0, m.page.Element(actions.ControlTime).Listeners())
}

func TestTyping_MirrorsIntoPage(t *testing.T) {
	m := CreateTestModel(t, newTestServer(t))

	m.Update(runes("Ana"))

	v, err := m.page.Value(actions.InputName)
	require.NoError(t, err)
	assert.Equal(t, "Ana", v)
}

func TestDigitsAndQAreTextInInputs(t *testing.T) {
	ts := newTestServer(t)
	m := CreateTestModel(t, ts)

	m.Update(runes("q"))
	m.Update(runes("3"))

	v, _ := m.page.Value(actions.InputName)
	assert.Equal(t, "q3", v)
	assert.Empty(t, ts.requests())
}

func TestEnterOnButton_RendersResponse(t *testing.T) {
	ts := newTestServer(t)
	m := CreateTestModel(t, ts)

	m.Update(runes("Ana"))
	m.Update(key(tea.KeyTab))
	require.Equal(t, focusItem{kind: focusButton, id: actions.ControlHelloGet}, m.focused())

	m.Update(key(tea.KeyEnter))
	assert.Equal(t, 1, m.inFlight)

	msg := m.waitForOutcome()()
	m.Update(msg)

	assert.Equal(t, 0, m.inFlight)
	require.NotNil(t, m.last)
	assert.True(t, m.last.OK())
	assert.Equal(t, "{\n  \"message\": \"Hola Ana\"\n}", m.page.Text(actions.TargetHelloGet))
	assert.Equal(t, []string{"GET /app/hello?name=Ana"}, ts.requests())
}

func TestDigitKey_TriggersSum(t *testing.T) {
	ts := newTestServer(t)
	m := CreateTestModel(t, ts)

	require.NoError(t, m.page.SetValue(actions.InputA, "2"))
	require.NoError(t, m.page.SetValue(actions.InputB, "3"))
	focusOn(t, m, actions.TargetTime)

	m.Update(runes("4"))

	assert.Eventually(t, func() bool {
		return m.page.Text(actions.TargetSum) != ""
	}, waitFor, 10*time.Millisecond)
	assert.Contains(t, m.page.Text(actions.TargetSum), `"sum": 5.00`)
	assert.Equal(t, []string{"GET /app/sum?a=2&b=3"}, ts.requests())
}

func TestPageChange_RefreshesPane(t *testing.T) {
	m := CreateTestModel(t, newTestServer(t))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	require.NoError(t, m.page.Element(actions.TargetTime).SetText("ten o'clock"))
	msg := m.waitForChange()()
	_, cmd := m.Update(msg)

	assert.NotNil(t, cmd)
	assert.Contains(t, m.panes[actions.TargetTime].View(), "ten o'clock")
}

func TestFocus_Wraps(t *testing.T) {
	m := CreateTestModel(t, newTestServer(t))

	m.Update(key(tea.KeyShiftTab))
	assert.Equal(t, focusItem{kind: focusTarget, id: actions.TargetSum}, m.focused())
	assert.False(t, m.inputs[actions.InputName].Focused())

	m.Update(key(tea.KeyTab))
	assert.Equal(t, focusItem{kind: focusInput, id: actions.InputName}, m.focused())
}

func TestQuit_FromButton(t *testing.T) {
	m := CreateTestModel(t, newTestServer(t))
	focusOn(t, m, actions.ControlTime)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCopy_RequiresResponseFocus(t *testing.T) {
	m := CreateTestModel(t, newTestServer(t))
	focusOn(t, m, actions.ControlTime)

	m.Update(runes("y"))
	assert.Equal(t, "Focus a response to copy it", m.errorMsg)

	focusOn(t, m, actions.TargetTime)
	m.Update(runes("y"))
	assert.Equal(t, "Nothing to copy", m.errorMsg)
}

func TestHistory_Disabled(t *testing.T) {
	m := CreateTestModel(t, newTestServer(t))
	focusOn(t, m, actions.ControlTime)

	_, cmd := m.Update(runes("h"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, ModeNormal, m.mode)
	assert.Contains(t, m.errorMsg, "History unavailable")
}

func TestHistory_ShowsRecordedCalls(t *testing.T) {
	ts := newTestServer(t)
	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	m, err := New(Options{BaseURL: ts.URL, Client: ts.Client(), History: mgr})
	require.NoError(t, err)
	t.Cleanup(m.Cleanup)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	focusOn(t, m, actions.ControlTime)
	m.Update(runes("3"))
	m.Update(m.waitForOutcome()())

	_, cmd := m.Update(runes("h"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, ModeHistory, m.mode)
	require.Len(t, m.entries, 1)
	assert.Equal(t, actions.ControlTime, m.entries[0].Control)
	require.Len(t, m.stats, 1)
	assert.Equal(t, 1, m.stats[0].TotalCalls)
	assert.Contains(t, m.View(), "/app/time")

	m.Update(key(tea.KeyEsc))
	assert.Equal(t, ModeNormal, m.mode)
}

func TestView_RendersSections(t *testing.T) {
	ts := newTestServer(t)
	m := CreateTestModel(t, ts)

	assert.Equal(t, "Initializing...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	for _, act := range actions.All() {
		assert.Contains(t, view, act.Label)
	}
	assert.Contains(t, view, ts.URL)

	m.Update(runes("?"))
	assert.Equal(t, ModeNormal, m.mode, "? is text while an input has focus")

	focusOn(t, m, actions.ControlSum)
	m.Update(runes("?"))
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "trigger_sum")
}

func TestFailedCall_SilentByDefault(t *testing.T) {
	server := newFailingServer(t)
	m, err := New(Options{BaseURL: server.URL, Client: server.Client()})
	require.NoError(t, err)
	t.Cleanup(m.Cleanup)

	focusOn(t, m, actions.ControlTime)
	m.Update(runes("3"))
	m.Update(m.waitForOutcome()())

	assert.Equal(t, 0, m.inFlight)
	assert.Empty(t, m.errorMsg)
	assert.Nil(t, m.last)
	assert.Empty(t, m.page.Text(actions.TargetTime))
}

func TestFailedCall_Surfaced(t *testing.T) {
	server := newFailingServer(t)
	m, err := New(Options{BaseURL: server.URL, Client: server.Client(), SurfaceErrors: true})
	require.NoError(t, err)
	t.Cleanup(m.Cleanup)

	focusOn(t, m, actions.ControlTime)
	m.Update(runes("3"))
	m.Update(m.waitForOutcome()())

	assert.Contains(t, m.errorMsg, "btnTime failed")
	require.NotNil(t, m.last)
	assert.Equal(t, 500, m.last.Status)
	assert.Contains(t, m.page.Text(actions.TargetTime), "Error: ")
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	got := truncate("¡Hola, Señora Muñoz!", 12)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 12)
}
