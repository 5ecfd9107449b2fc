// Command pastecall is the CLI entry point.
//
// Sets up a WebRTC audio/video call between two instances where the human is
// the signaling channel: offers, answers and ICE candidate batches are
// copy-pasted between terminals. An optional WebSocket board mirrors the
// text buffers so the other side can watch (-watch) instead of reading
// them off a screen share.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/pterm/pterm"

	"github.com/1ureka/pastecall/internal/board"
	"github.com/1ureka/pastecall/internal/config"
	"github.com/1ureka/pastecall/internal/media"
	"github.com/1ureka/pastecall/internal/playback"
	"github.com/1ureka/pastecall/internal/signaling"
	"github.com/1ureka/pastecall/internal/transport"
	"github.com/1ureka/pastecall/internal/ui"
	"github.com/1ureka/pastecall/internal/util"
)

var version = "dev"

func main() {
	// Root context, cancelled on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		util.LogError("%v", err)
		os.Exit(2)
	}

	if cfg.Debug {
		util.EnableDebug()
	}

	pterm.Info.Println(fmt.Sprintf("pastecall v%s", version))
	pterm.Println()

	if cfg.WatchURL != "" {
		runWatch(ctx, cfg.WatchURL)
		return
	}

	if err := runCall(ctx, cfg); err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}
	util.LogInfo("bye")
}

// ---------------------------------------------------------------------------
// Run modes
// ---------------------------------------------------------------------------

// runCall runs the interactive call until the operator quits.
func runCall(ctx context.Context, cfg config.Config) error {
	devices := media.NewDevices()
	if cfg.AudioFile != "" {
		devices.AddAudioFile(cfg.AudioFile)
	}
	if cfg.VideoFile != "" {
		devices.AddVideoFile(cfg.VideoFile)
	}

	api, err := transport.NewAPI(transport.APIOptions{LoggerFactory: util.PionLoggerFactory{}})
	if err != nil {
		return fmt.Errorf("failed to set up WebRTC: %w", err)
	}

	renderer := playback.NewRenderer(cfg.RecordDir)
	defer renderer.Close()

	connector := signaling.TransportConnector(api, cfg.ICEServers)
	coord := signaling.New(signaling.Options{
		Devices: devices,
		Local:   playback.NewPreview(),
		Remote:  renderer,
		Connect: func(ctx context.Context) (signaling.Connection, error) {
			conn, err := connector(ctx)
			if err != nil {
				return nil, err
			}
			if k, ok := conn.(playback.KeyframeRequester); ok {
				renderer.SetKeyframeRequester(k)
			}
			return conn, nil
		},
	})
	defer func() {
		if err := coord.Close(); err != nil {
			util.LogDebug("closing connection: %v", err)
		}
	}()

	coord.SDP().OnChange(func(text string) {
		util.LogInfo("SDP buffer updated (%s)", util.BlobID(text))
	})
	coord.ICE().OnChange(func(text string) {
		util.LogDebug("ICE buffer updated (%s)", util.BlobID(text))
	})

	if addr := cfg.BoardAddr(); addr != "" {
		srv, err := startBoard(addr, coord)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	util.StartStatsReporter(ctx, cfg.StatsInterval)

	app := ui.NewApp(coord, devices, ui.PtermPrompter{}, cfg.AudioDevice, cfg.VideoDevice)
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func startBoard(addr string, coord *signaling.Coordinator) (*board.Server, error) {
	pin := board.GeneratePIN(4)
	srv := board.NewServer(pin, coord.SDP(), coord.ICE())
	port, err := srv.Start(addr)
	if err != nil {
		return nil, err
	}
	coord.OnStateChange(func(s signaling.State) { srv.PublishState(s.String()) })

	pterm.DefaultBox.WithTitle("Buffer board").Println(
		fmt.Sprintf("Port : %d\nPIN  : %s\nWatch: pastecall -watch ws://<host>:%d/ws?pin=%s", port, pin, port, pin))
	pterm.Println()
	return srv, nil
}

// runWatch mirrors another instance's board until interrupted.
func runWatch(ctx context.Context, raw string) {
	wsURL, err := normalizeWSURL(raw)
	if err != nil {
		util.LogError("%v", err)
		os.Exit(2)
	}

	util.LogInfo("watching %s", wsURL)
	err = board.Watch(ctx, wsURL, func(m board.Message) {
		switch m.Type {
		case board.MsgTypeState:
			util.LogInfo("remote state: %s", m.Text)
		default:
			if m.Text == "" {
				util.LogInfo("remote %s buffer is empty", m.Type)
				return
			}
			pterm.DefaultBox.WithTitle(fmt.Sprintf("%s (%s)", strings.ToUpper(string(m.Type)), m.ID)).Println(m.Text)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		util.LogError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Helper Functions
// ---------------------------------------------------------------------------

// normalizeWSURL validates a board URL, defaulting the scheme to ws and the
// path to /ws. The pin query parameter is kept.
func normalizeWSURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "ws://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid board URL: %s", raw)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid board URL scheme: %s", u.Scheme)
	}
	if u.Query().Get("pin") == "" {
		return "", errors.New("board URL is missing the pin query parameter")
	}
	u.Path = "/ws"
	return u.String(), nil
}
