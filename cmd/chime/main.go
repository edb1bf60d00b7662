// Command chime is a Neovim remote plugin providing floating notifications.
// Register it with :UpdateRemotePlugins, then call ChimeNotify, ChimeHistory
// and ChimeDismiss from vimscript or lua.
package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/neovim/go-client/nvim"
	"github.com/neovim/go-client/nvim/plugin"

	"github.com/marout/chime/internal/config"
	"github.com/marout/chime/internal/errmsg"
	"github.com/marout/chime/internal/host/nvimhost"
	"github.com/marout/chime/internal/notify"
)

type server struct {
	once sync.Once
	ctl  *notify.Controller
	err  error
}

// controller lazily builds the engine on first use; the rpc channel is not
// fully attached until the first handler call.
func (s *server) controller(n *nvim.Nvim) (*notify.Controller, error) {
	s.once.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			// The message surfaces verbatim in nvim's error area.
			s.err = errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
			return
		}
		h, err := nvimhost.New(n)
		if err != nil {
			s.err = errors.New(errmsg.Format(errmsg.OpInitialize, err))
			return
		}
		ctl, err := notify.New(h, cfg)
		if err != nil {
			s.err = errors.New(errmsg.Format(errmsg.OpInitialize, err))
			return
		}
		s.ctl = ctl
	})
	return s.ctl, s.err
}

func (s *server) notify(n *nvim.Nvim, args []any) error {
	ctl, err := s.controller(n)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("ChimeNotify: message required")
	}
	message, _ := args[0].(string)
	var level any
	if len(args) > 1 {
		level = args[1]
	}
	var opts notify.Options
	if len(args) > 2 {
		opts = parseOptions(args[2])
	}
	ctl.Notify(message, level, opts)
	return nil
}

func (s *server) history(n *nvim.Nvim) error {
	ctl, err := s.controller(n)
	if err != nil {
		return err
	}
	ctl.ShowHistory()
	return nil
}

func (s *server) dismiss(n *nvim.Nvim, args []any) error {
	ctl, err := s.controller(n)
	if err != nil {
		return err
	}
	var opts notify.DismissOptions
	if len(args) > 0 {
		if m, ok := args[0].(map[string]any); ok {
			if v, ok := toBool(m["immediate"]); ok {
				opts.Immediate = v
			}
			if ms, ok := toInt(m["stagger"]); ok {
				opts.Stagger = time.Duration(ms) * time.Millisecond
			}
		}
	}
	ctl.Dismiss(opts)
	return nil
}

func (s *server) resized(n *nvim.Nvim) {
	if ctl, err := s.controller(n); err == nil {
		ctl.ScreenResized()
	}
}

// parseOptions maps the vim dict onto engine options. Unknown keys are
// ignored, wrong types fall back to defaults.
func parseOptions(v any) notify.Options {
	m, ok := v.(map[string]any)
	if !ok {
		return notify.Options{}
	}
	opts := notify.Options{ID: m["id"]}
	if g, ok := m["group"].(string); ok {
		opts.Group = g
	}
	if icon, ok := m["icon"].(string); ok {
		opts.Icon = icon
	}
	if hl, ok := m["highlight"].(string); ok {
		opts.Highlight = hl
	}
	if ms, ok := toInt(m["timeout"]); ok {
		opts.Timeout = notify.Millis(ms)
	}
	return opts
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case int64:
		return b != 0, true
	case uint64:
		return b != 0, true
	}
	return false, false
}

func main() {
	var s server
	plugin.Main(func(p *plugin.Plugin) error {
		p.HandleFunction(&plugin.FunctionOptions{Name: "ChimeNotify"}, func(args []any) error {
			return s.notify(p.Nvim, args)
		})
		p.HandleFunction(&plugin.FunctionOptions{Name: "ChimeHistory"}, func(args []any) error {
			return s.history(p.Nvim)
		})
		p.HandleFunction(&plugin.FunctionOptions{Name: "ChimeDismiss"}, func(args []any) error {
			return s.dismiss(p.Nvim, args)
		})
		p.HandleAutocmd(&plugin.AutocmdOptions{Event: "VimResized", Pattern: "*"}, func() {
			s.resized(p.Nvim)
		})
		return nil
	})
}
