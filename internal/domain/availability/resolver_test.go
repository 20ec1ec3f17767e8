package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aviato-app/aviato-match/internal/domain/user"
)

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeGreen, ParseMode("GREEN"))
	assert.Equal(t, ModeBrown, ParseMode(" brown "))
	assert.Equal(t, ModeUnknown, ParseMode(""))
	assert.Equal(t, ModeUnknown, ParseMode("purple"))

	for _, m := range AllModes() {
		assert.Equal(t, m, ParseMode(m.String()), m.String())
	}
}

func TestResolve_GreenIsAvailable(t *testing.T) {
	st := Resolve(user.User{ID: "u1", AvailabilityMode: "green"})

	assert.True(t, st.Available)
	assert.Equal(t, ColorGreen, st.ModeColor)
	assert.Equal(t, IconNone, st.Icon)
	assert.Equal(t, "Available", st.StatusText)
}

func TestResolve_UnavailableModes(t *testing.T) {
	tests := []struct {
		tag  string
		icon Icon
	}{
		{"yellow", IconClock},
		{"brown", IconClock},
		{"blue", IconCalendar},
		{"orange", IconUsers},
		{"gray", IconPause},
		{"red", IconLock},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			st := Resolve(user.User{ID: "u1", AvailabilityMode: tt.tag})
			assert.False(t, st.Available)
			assert.Equal(t, tt.icon, st.Icon)
			assert.NotEmpty(t, st.StatusText)
			assert.NotEmpty(t, st.Reason)
			assert.NotEqual(t, ColorNone, st.ModeColor)
		})
	}
}

func TestResolve_UnknownFailsClosed(t *testing.T) {
	for _, tag := range []string{"", "purple", "GREENISH"} {
		st := Resolve(user.User{ID: "u1", AvailabilityMode: tag, StatusNote: "ping me"})

		assert.False(t, st.Available, tag)
		assert.Empty(t, st.StatusText, tag)
		assert.Empty(t, st.Reason, tag)
		assert.Equal(t, IconNone, st.Icon, tag)
		assert.Equal(t, ColorNone, st.ModeColor, tag)
		assert.Empty(t, st.DisplayText(), tag)
	}
}

func TestResolve_NoteReplacesReasonOnly(t *testing.T) {
	base := Resolve(user.User{ID: "u1", AvailabilityMode: "yellow"})
	noted := Resolve(user.User{ID: "u1", AvailabilityMode: "yellow", StatusNote: "back at 6pm"})

	assert.Equal(t, "back at 6pm", noted.Reason)
	assert.Equal(t, base.StatusText, noted.StatusText)
	assert.Equal(t, base.ModeColor, noted.ModeColor)
	assert.Equal(t, base.Available, noted.Available)
}

func TestResolve_EveryModeHasDistinctColor(t *testing.T) {
	seen := map[Color]Mode{}
	for _, m := range AllModes() {
		st := ResolveMode(m, "")
		if m == ModeYellow || m == ModeBrown {
			assert.Equal(t, IconClock, st.Icon)
		}
		prev, dup := seen[st.ModeColor]
		assert.False(t, dup, "%s shares color with %s", m, prev)
		seen[st.ModeColor] = m
	}
}

func TestStatus_DisplayText(t *testing.T) {
	assert.Equal(t, "Paused", Status{StatusText: "Paused", Reason: "x"}.DisplayText())
	assert.Equal(t, "x", Status{Reason: "x"}.DisplayText())
}
