package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
)

// colorHandler wraps a slog.TextHandler and, when attached to a terminal,
// renders the level prefix the same way the teacher's validation formatters
// color [ERROR]/[WARNING] labels: lipgloss styles gated by an isatty check
// done once at construction, not per record.
type colorHandler struct {
	slog.Handler
	out    io.Writer
	color  bool
	styles map[slog.Level]lipgloss.Style
}

func newColorHandler(out io.Writer, level slog.Level, color bool) *colorHandler {
	return &colorHandler{
		Handler: slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}),
		out:     out,
		color:   color,
		styles: map[slog.Level]lipgloss.Style{
			slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
			slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

func (h *colorHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.color {
		return h.Handler.Handle(ctx, r)
	}
	label := r.Level.String()
	if style, ok := h.styles[r.Level]; ok {
		label = style.Render(label)
	}
	fmt.Fprintf(h.out, "%s %s\n", label, r.Message)
	return nil
}
