package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/soundpad/internal/log"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
	"github.com/zjrosen/soundpad/internal/ui/board"
	"github.com/zjrosen/soundpad/internal/ui/storefail"
	"github.com/zjrosen/soundpad/internal/ui/styles"
	"github.com/zjrosen/soundpad/internal/watcher"
)

func (c *commandContext) runTUI(ctx context.Context) error {
	if err := styles.ApplyTheme(styles.ThemeConfig{Preset: c.cfg.Theme.Preset, Colors: c.cfg.Theme.Colors}); err != nil {
		return fmt.Errorf("theme: %w", err)
	}

	s, err := c.open(ctx)
	if err != nil {
		var initErr *domain.InitializationError
		if !errors.As(err, &initErr) {
			return err
		}
		if _, runErr := tea.NewProgram(storefail.New(err), tea.WithAltScreen(), tea.WithContext(ctx)).Run(); runErr != nil {
			log.ErrorErr(log.CatUI, "Store failure screen exited", runErr)
		}
		return err
	}
	defer func() {
		if err := s.close(context.WithoutCancel(ctx)); err != nil {
			log.ErrorErr(log.CatDB, "Shutdown failed", err)
		}
	}()

	zones := zone.New()
	defer zones.Close()

	model := board.New(board.Config{
		Service:       s.board,
		Zones:         zones,
		Context:       ctx,
		ShowStatusBar: c.cfg.UI.ShowStatusBar,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	s.player.OnEnded(func(name string) {
		p.Send(board.PlaybackEndedMsg{Name: name})
	})

	if c.cfg.AutoRefresh {
		w, err := watcher.New(c.cfg.DBPath, c.cfg.AutoRefreshDebounce, func() {
			p.Send(board.StoreChangedMsg{})
		})
		if err != nil {
			log.Warn(log.CatWatch, "Auto refresh disabled", "error", err)
		} else {
			defer func() { _ = w.Close() }()
		}
	}

	log.Info(log.CatUI, "Board opened", "sounds", s.board.Snapshot().Len())
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}
