package ttyl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOSC_Title(t *testing.T) {
	tests := map[string]string{
		"bel terminated": "\x1b]0;Test Title\x07",
		"st terminated":  "\x1b]2;Test Title\x1b\\",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			emu := newTestEmulator(t, 2, 10)
			d := emu.Apply(input)
			assert.True(t, d.TitleChanged)
			assert.Equal(t, "Test Title", emu.Title())
			row, col := emu.Cursor()
			assert.Equal(t, 0, row)
			assert.Equal(t, 0, col)
		})
	}
}

func TestOSC_Split(t *testing.T) {
	emu := newTestEmulator(t, 2, 10)
	d := emu.Apply("\x1b]0;Hel")
	assert.True(t, d.Incomplete)
	assert.False(t, d.TitleChanged)

	d = emu.Apply("lo\x07")
	assert.True(t, d.TitleChanged)
	assert.Equal(t, "Hello", emu.Title())
}

func TestOSC_EscapeStartsNewSequence(t *testing.T) {
	emu := newTestEmulator(t, 2, 10)
	emu.Apply("\x1b]0;title\x1b[31mx")

	assert.Equal(t, "title", emu.Title())
	fg, _ := emu.Colors()
	assert.Equal(t, Named(Red), fg)
	assert.Equal(t, "x\n", emu.Snapshot().Text())
}

func TestOSC_Directory(t *testing.T) {
	tests := map[string]struct {
		uri, want string
	}{
		"with host": {uri: "file://host/home/user", want: "/home/user"},
		"no host":   {uri: "file:///tmp", want: "/tmp"},
		"host only": {uri: "file://host", want: "/"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			emu := newTestEmulator(t, 2, 10)
			d := emu.Apply("\x1b]7;" + tt.uri + "\x07")
			assert.True(t, d.DirectoryChanged)
			assert.Equal(t, tt.want, emu.Directory())
		})
	}
}

func TestOSC_DirectoryUnchanged(t *testing.T) {
	emu := newTestEmulator(t, 2, 10)
	emu.Apply("\x1b]7;file:///tmp\x07")

	d := emu.Apply("\x1b]7;file:///tmp\x07")
	assert.False(t, d.DirectoryChanged)
}

func TestOSCHandler(t *testing.T) {
	emu := newTestEmulator(t, 2, 10)
	var got string
	emu.RegisterOSCHandler(52, func(data string) {
		got = data
	})

	emu.Apply("\x1b]52;c;aGVsbG8=\x07")
	assert.Equal(t, "c;aGVsbG8=", got)
}

func TestOSCHandlerOverride(t *testing.T) {
	emu := newTestEmulator(t, 2, 10)
	var got string
	emu.RegisterOSCHandler(0, func(data string) {
		got = data
	})

	d := emu.Apply("\x1b]0;custom\x07")
	assert.Equal(t, "custom", got)
	assert.False(t, d.TitleChanged)
	assert.Equal(t, "", emu.Title())
}

func TestOSCHandler_CanReadEmulator(t *testing.T) {
	emu := newTestEmulator(t, 2, 10)
	var title string
	var row, col int
	emu.RegisterOSCHandler(52, func(string) {
		title = emu.Title()
		row, col = emu.Cursor()
	})

	done := make(chan struct{})
	go func() {
		emu.Apply("\x1b]0;before\x07\x1b]52;c;\x07ab")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler blocked on the emulator")
	}

	assert.Equal(t, "before", title)
	assert.Equal(t, 0, row)
	assert.Equal(t, 2, col)
}

func TestOSCBuiltinHandlers(t *testing.T) {
	emu := newTestEmulator(t, 2, 20)
	emu.Apply("\x1b]133;A\x07$ \x1b]133;B\x07\x1b]1337;CurrentDir=/tmp\x07\x1b]1;icon\x07ls")

	assert.Equal(t, "$ ls\n", emu.Snapshot().Text())
	assert.Equal(t, "", emu.Title())
}

func TestParseITermPairs(t *testing.T) {
	pairs := parseITermPairs("CurrentDir=/tmp;RemoteHost=me@host;Empty=;=skipped;Flag")
	assert.Equal(t, map[string]string{
		"CurrentDir": "/tmp",
		"RemoteHost": "me@host",
		"Empty":      "",
		"Flag":       "",
	}, pairs)
}

func TestPathFromFileURI(t *testing.T) {
	assert.Equal(t, "/home/user", pathFromFileURI("file://host/home/user"))
	assert.Equal(t, "/", pathFromFileURI("file://host"))
	assert.Equal(t, "/plain", pathFromFileURI("/plain"))
}
