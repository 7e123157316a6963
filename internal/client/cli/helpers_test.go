package cli

import (
	"fmt"
	"io"
	"strings"
)

// fakeIO реализует iocli.IO для тестов: отдает заранее заданные
// ответы на ReadInput и накапливает весь вывод в буфере
type fakeIO struct {
	output strings.Builder
	inputs []string
}

func newFakeIO(inputs ...string) *fakeIO {
	return &fakeIO{inputs: inputs}
}

func (f *fakeIO) Println(a ...any) {
	fmt.Fprintln(&f.output, a...)
}

func (f *fakeIO) Printf(format string, a ...any) {
	fmt.Fprintf(&f.output, format, a...)
}

func (f *fakeIO) ReadInput(prompt string) (string, error) {
	if len(f.inputs) == 0 {
		return "", io.EOF
	}
	line := f.inputs[0]
	f.inputs = f.inputs[1:]
	return line, nil
}

func (f *fakeIO) ReadSecret(prompt string) (string, error) {
	return f.ReadInput(prompt)
}

func (f *fakeIO) Write(p []byte) (int, error) {
	return f.output.Write(p)
}
