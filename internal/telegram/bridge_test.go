package telegram

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIO собирает вывод и отдаёт заготовленные ответы на ввод
type fakeIO struct {
	out    strings.Builder
	inputs []string
}

func (f *fakeIO) Println(a ...any) {
	f.out.WriteString(fmt.Sprintln(a...))
}

func (f *fakeIO) Printf(format string, a ...any) {
	fmt.Fprintf(&f.out, format, a...)
}

func (f *fakeIO) ReadInput(prompt string) (string, error) {
	f.out.WriteString(prompt)
	if len(f.inputs) == 0 {
		return "", fmt.Errorf("no input")
	}
	input := f.inputs[0]
	f.inputs = f.inputs[1:]
	return input, nil
}

func (f *fakeIO) ReadSecret(prompt string) (string, error) {
	return f.ReadInput(prompt)
}

func (f *fakeIO) Write(p []byte) (int, error) {
	return f.out.Write(p)
}

func testBridgeLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestConsoleBridge_WithInitData(t *testing.T) {
	values := url.Values{}
	values.Set("user", sampleUser)
	values.Set("hash", "abc")

	bridge := NewConsoleBridge(values.Encode(), &fakeIO{}, testBridgeLogger())

	user := bridge.User()
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, values.Encode(), bridge.InitData())
}

func TestConsoleBridge_WithoutInitData(t *testing.T) {
	bridge := NewConsoleBridge("", &fakeIO{}, testBridgeLogger())

	assert.Nil(t, bridge.User())
	assert.Empty(t, bridge.InitData())
}

func TestConsoleBridge_MalformedInitDataIgnored(t *testing.T) {
	bridge := NewConsoleBridge("user=%7Bbroken", &fakeIO{}, testBridgeLogger())

	assert.Nil(t, bridge.User())
	assert.Empty(t, bridge.InitData())
}

func TestConsoleBridge_Alert(t *testing.T) {
	io := &fakeIO{}
	bridge := NewConsoleBridge("", io, testBridgeLogger())

	bridge.Alert("Не удалось удалить тренировку")
	assert.Contains(t, io.out.String(), "Не удалось удалить тренировку")
}

func TestConsoleBridge_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"n", false},
		{"", false},
		{"что-то", false},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.input, func(t *testing.T) {
			io := &fakeIO{inputs: []string{tt.input}}
			bridge := NewConsoleBridge("", io, testBridgeLogger())

			got, err := bridge.Confirm("Удалить?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
