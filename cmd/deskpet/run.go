package main

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/sethgrid/deskpet/internal/app"
	"github.com/sethgrid/deskpet/internal/art"
	"github.com/sethgrid/deskpet/internal/present"
	"github.com/sethgrid/deskpet/internal/window"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Put the pet on screen",
	Long: `Put the pet on screen.

By default the pet gets its own borderless desktop window. --terminal draws
it in the current terminal instead, and --headless runs without any display,
reading commands (click, menu, do ACTION, play ID, status, quit) from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		terminal, _ := cmd.Flags().GetBool("terminal")
		headless, _ := cmd.Flags().GetBool("headless")
		mute, _ := cmd.Flags().GetBool("mute")
		if terminal && headless {
			return fmt.Errorf("--terminal and --headless cannot be combined")
		}

		s, err := loadSession()
		if err != nil {
			return err
		}
		log, closeLog, err := s.logger(terminal)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var audio present.AudioPlayer
		if !mute {
			speaker := present.NewSpeaker(present.SystemDevice(), log)
			defer speaker.Stop()
			audio = speaker
		}

		opts := app.Options{
			Config:  s.config,
			Catalog: s.catalog,
			Assets:  os.DirFS(s.assetDir),
			Logger:  log,
		}
		log.Debug("starting", "config", s.configPath, "assets", s.assetDir)

		switch {
		case headless:
			return runHeadless(ctx, opts, audio, log)
		case terminal:
			return runTerminal(ctx, opts, audio, log)
		}
		return runWindow(ctx, opts, audio, log)
	},
}

func init() {
	runCmd.Flags().Bool("terminal", false, "Draw the pet in this terminal")
	runCmd.Flags().Bool("headless", false, "Run without a display and read commands from stdin")
	runCmd.Flags().Bool("mute", false, "Do not play sounds")
}

func runWindow(ctx context.Context, opts app.Options, audio present.AudioPlayer, log hclog.Logger) error {
	w := window.New(opts.Config.Name, audio, log)
	opts.Sink, opts.Mover = w, w

	a, err := app.New(opts)
	if err != nil {
		return fmt.Errorf("failed to start pet: %w", err)
	}
	defer a.Close()

	a.Start()
	return w.Run(ctx, a)
}

func runTerminal(ctx context.Context, opts app.Options, audio present.AudioPlayer, log hclog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	term, err := art.NewTerminal(screen, audio, log)
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	opts.Sink, opts.Mover = term, term

	a, err := app.New(opts)
	if err != nil {
		screen.Fini()
		return fmt.Errorf("failed to start pet: %w", err)
	}
	defer a.Close()

	a.Start()
	return term.Run(ctx, a)
}

// runHeadless sleeps until the next timer is due or a command arrives.
func runHeadless(ctx context.Context, opts app.Options, audio present.AudioPlayer, log hclog.Logger) error {
	sink := present.NewLogSink(audio, log)
	opts.Sink = sink
	opts.Mover = present.NewDesk(image.Rect(0, 0, 1920, 1080), image.Pt(860, 440))

	a, err := app.New(opts)
	if err != nil {
		return fmt.Errorf("failed to start pet: %w", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.Controller().OnQuit = cancel
	a.Start()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		if next, ok := a.Next(); ok {
			timer.Reset(time.Until(next))
		} else {
			timer.Stop()
		}

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// stdin closed: keep running until signalled
				lines = nil
				continue
			}
			out, err := a.Exec(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			if out != "" {
				fmt.Println(out)
			}
		case now := <-timer.C:
			a.Step(now)
		}
	}
}
