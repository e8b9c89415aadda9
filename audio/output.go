// Audio outputs for the socket consumer

package audio

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// An output is a closable sample writer
type Output interface {
	Writer
	io.Closer
}

// Output constructor
type OutputFunc func(target string, spec Spec) (Output, error)

// Registered output kinds
var outputs = map[string]OutputFunc{
	"file":    openFile,
	"discard": openDiscard,
}

// Registers an output kind, called from build tagged output files
func RegisterOutput(kind string, fn OutputFunc) {
	outputs[kind] = fn
}

// Names of the registered outputs
func Outputs() []string {
	var names []string
	for k := range outputs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Opens an output from a "kind[:target]" string, for example
// "file:/tmp/out.raw", "file:-" for stdout or "discard"
func OpenOutput(str string, spec Spec) (Output, error) {
	kind, target, _ := strings.Cut(str, ":")
	fn, ok := outputs[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrNoOutput, kind, strings.Join(Outputs(), ", "))
	}
	return fn(target, spec)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func openFile(target string, spec Spec) (Output, error) {
	if target == "" || target == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(target)
}

func openDiscard(target string, spec Spec) (Output, error) {
	return nopCloser{io.Discard}, nil
}
