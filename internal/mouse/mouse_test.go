package mouse

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listHandler lays out three note rows of four lines each under a two line
// header, the way the note list paints them.
func listHandler(now *time.Time) *Handler {
	h := NewHandler()
	h.now = func() time.Time { return *now }
	for i, id := range []string{"note:a", "note:b", "note:c"} {
		h.HitMap.AddRect(id, 0, 2+i*5, 80, 4, i)
	}
	return h
}

func leftClick(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func TestRectEdgesAreExclusive(t *testing.T) {
	r := Rect{X: 0, Y: 7, W: 80, H: 4}

	assert.True(t, r.Contains(0, 7))
	assert.True(t, r.Contains(79, 10))
	assert.False(t, r.Contains(80, 8), "right edge")
	assert.False(t, r.Contains(5, 11), "gap line below the row")
	assert.False(t, r.Contains(5, 6))
}

func TestHitMapFindsNoteRow(t *testing.T) {
	now := time.Unix(0, 0)
	h := listHandler(&now)

	r := h.HitMap.Test(10, 8)
	require.NotNil(t, r)
	assert.Equal(t, "note:b", r.ID)
	assert.Equal(t, 1, r.Data)

	assert.Nil(t, h.HitMap.Test(10, 1), "header")
	assert.Nil(t, h.HitMap.Test(10, 6), "gap between rows")
}

func TestLaterRegionsSitOnTop(t *testing.T) {
	hm := NewHitMap()
	hm.AddRect("backdrop", 0, 0, 100, 40, nil)
	hm.AddRect("body", 20, 5, 60, 30, nil)
	hm.AddRect("save", 30, 20, 8, 1, nil)

	assert.Equal(t, "save", hm.Test(31, 20).ID)
	assert.Equal(t, "body", hm.Test(21, 6).ID)
	assert.Equal(t, "backdrop", hm.Test(1, 1).ID)

	hm.Clear()
	assert.Nil(t, hm.Test(31, 20))
}

func TestDoubleClickOpensOnlyWithinWindow(t *testing.T) {
	now := time.Unix(100, 0)
	h := listHandler(&now)

	a := h.HandleMouse(leftClick(3, 3))
	assert.Equal(t, ActionClick, a.Type)
	require.NotNil(t, a.Region)
	assert.Equal(t, 0, a.Region.Data)

	now = now.Add(DoubleClickWindow / 2)
	a = h.HandleMouse(leftClick(40, 4))
	assert.Equal(t, ActionDoubleClick, a.Type, "second click anywhere in the same row")

	// the pair is consumed; a third click starts over
	now = now.Add(10 * time.Millisecond)
	assert.Equal(t, ActionClick, h.HandleMouse(leftClick(3, 3)).Type)

	now = now.Add(DoubleClickWindow + time.Millisecond)
	assert.Equal(t, ActionClick, h.HandleMouse(leftClick(3, 3)).Type, "too slow")
}

func TestDoubleClickNeedsSameNote(t *testing.T) {
	now := time.Unix(100, 0)
	h := listHandler(&now)

	h.HandleMouse(leftClick(3, 3))
	a := h.HandleMouse(leftClick(3, 8))
	assert.Equal(t, ActionClick, a.Type)
	assert.Equal(t, "note:b", a.Region.ID)
}

func TestClickOnEmptySpaceResetsHistory(t *testing.T) {
	now := time.Unix(100, 0)
	h := listHandler(&now)

	h.HandleMouse(leftClick(3, 3))
	miss := h.HandleMouse(leftClick(3, 30))
	assert.Equal(t, ActionNone, miss.Type)
	assert.Nil(t, miss.Region)

	assert.Equal(t, ActionClick, h.HandleMouse(leftClick(3, 3)).Type)
}

func TestWheelMovesByScrollDelta(t *testing.T) {
	now := time.Unix(0, 0)
	h := listHandler(&now)

	up := h.HandleMouse(tea.MouseMsg{X: 5, Y: 13, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	assert.Equal(t, ActionScrollUp, up.Type)
	assert.Equal(t, -ScrollDelta, up.Delta)
	require.NotNil(t, up.Region)
	assert.Equal(t, "note:c", up.Region.ID)

	down := h.HandleMouse(tea.MouseMsg{X: 5, Y: 0, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, ActionScrollDown, down.Type)
	assert.Equal(t, ScrollDelta, down.Delta)
	assert.Nil(t, down.Region)
}

func TestMotionHoversAndReleaseIsIgnored(t *testing.T) {
	now := time.Unix(0, 0)
	h := listHandler(&now)

	hover := h.HandleMouse(tea.MouseMsg{X: 2, Y: 12, Action: tea.MouseActionMotion})
	assert.Equal(t, ActionHover, hover.Type)
	require.NotNil(t, hover.Region)
	assert.Equal(t, "note:c", hover.Region.ID)

	release := h.HandleMouse(tea.MouseMsg{X: 2, Y: 12, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	assert.Equal(t, ActionNone, release.Type)

	// a release between two presses does not break the double click
	h.HandleMouse(leftClick(2, 12))
	h.HandleMouse(tea.MouseMsg{X: 2, Y: 12, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	assert.Equal(t, ActionDoubleClick, h.HandleMouse(leftClick(2, 12)).Type)
}
