package rasterpaint

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Tunables holds the engine's performance knobs. The zero value of any
// field means "use the default"; Defaults() returns the built-in values.
//
// Tunables are fixed at painter construction. They are not part of the
// drawing API: changing them never changes rendered output, only how the
// work is scheduled and batched.
type Tunables struct {
	// MaxThreads caps the number of worker threads in multithreaded
	// mode. The effective count is min(MaxThreads, GOMAXPROCS).
	MaxThreads int `toml:"max_threads"`

	// MaxCommands is the command ring capacity. When the ring fills the
	// painter flushes internally and restarts at slot 0.
	MaxCommands int `toml:"max_commands"`

	// MTSizeThreshold auto-enables multithreading for surfaces with at
	// least this many pixels.
	MTSizeThreshold int `toml:"mt_size_threshold"`

	// BlockSize is the command allocator block size in bytes.
	BlockSize int `toml:"block_size"`

	// ScratchSize is the initial per-worker scratch buffer size in
	// bytes. Scratch buffers grow by power-of-two doubling on demand.
	ScratchSize int `toml:"scratch_size"`
}

// Defaults returns the built-in tunables.
func Defaults() Tunables {
	return Tunables{
		MaxThreads:      4,
		MaxCommands:     4096,
		MTSizeThreshold: 262144,
		BlockSize:       32000,
		ScratchSize:     8192,
	}
}

// normalize replaces non-positive fields with their defaults.
func (t Tunables) normalize() Tunables {
	d := Defaults()
	if t.MaxThreads <= 0 {
		t.MaxThreads = d.MaxThreads
	}
	if t.MaxCommands <= 0 {
		t.MaxCommands = d.MaxCommands
	}
	if t.MTSizeThreshold <= 0 {
		t.MTSizeThreshold = d.MTSizeThreshold
	}
	if t.BlockSize <= 0 {
		t.BlockSize = d.BlockSize
	}
	if t.ScratchSize <= 0 {
		t.ScratchSize = d.ScratchSize
	}
	return t
}

// LoadTunables reads a TOML tunables file. Missing keys keep their
// defaults; unknown keys are an error.
func LoadTunables(r io.Reader) (Tunables, error) {
	t := Defaults()
	meta, err := toml.NewDecoder(r).Decode(&t)
	if err != nil {
		return Defaults(), fmt.Errorf("rasterpaint: tunables: %w", err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return Defaults(), fmt.Errorf("%w: unknown tunable %q", ErrInvalidArgument, undec[0].String())
	}
	return t.normalize(), nil
}
