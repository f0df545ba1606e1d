package nvim

import (
	"context"
	"os"

	"github.com/neovim/go-client/nvim"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrEditorOpen is returned when a running Neovim could not show the file.
var ErrEditorOpen = errors.Base("failed to open file in editor")

// addressEnvVars are exported by Neovim to its terminals and jobs.
var addressEnvVars = []string{"NVIM", "NVIM_LISTEN_ADDRESS"}

// Address returns the server address to use: explicit if set, otherwise the
// first one found in the environment.
func Address(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range addressEnvVars {
		if addr := os.Getenv(name); addr != "" {
			return addr
		}
	}
	return ""
}

// Manager opens files in an already running Neovim instance.
type Manager struct {
	addr string
}

// New creates a Manager for the server at addr. An empty addr disables it.
func New(addr string) *Manager {
	return &Manager{addr: addr}
}

// Available reports whether a server address is configured.
func (m *Manager) Available() bool {
	return m.addr != ""
}

// Reveal opens path in the connected Neovim and reloads it from disk in case
// a stale buffer for it was already loaded.
func (m *Manager) Reveal(ctx context.Context, path string) error {
	if !m.Available() {
		return errors.Errorf("%w: no Neovim server address", ErrEditorOpen)
	}

	v, err := nvim.Dial(m.addr, nvim.DialContext(ctx))
	if err != nil {
		return errors.Errorf("%w: connecting to %s: %w", ErrEditorOpen, m.addr, err)
	}
	defer v.Close()

	var escaped string
	if err := v.Call("fnameescape", &escaped, path); err != nil {
		return errors.Errorf("%w: escaping %s: %w", ErrEditorOpen, path, err)
	}

	b := v.NewBatch()
	b.Command("drop " + escaped)
	b.Command("checktime")
	if err := b.Execute(); err != nil {
		return errors.Errorf("%w: %s: %w", ErrEditorOpen, path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("addr", m.addr).Str("path", path).Msg("revealed in neovim")
	return nil
}
