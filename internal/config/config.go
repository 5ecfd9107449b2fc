// Package config holds the CLI configuration and its loader.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pion/webrtc/v4"
)

const (
	envAudioFile     = "PASTECALL_AUDIO_FILE"
	envVideoFile     = "PASTECALL_VIDEO_FILE"
	envRecordDir     = "PASTECALL_RECORD_DIR"
	envStunURLs      = "PASTECALL_STUN_URLS"
	envBoardPort     = "PASTECALL_BOARD_PORT"
	envStatsInterval = "PASTECALL_STATS_INTERVAL"
	envDebug         = "PASTECALL_DEBUG"
)

const defaultStatsInterval = 10 * time.Second

// Config stores all parameters gathered from flags and the environment.
type Config struct {
	AudioFile   string // Ogg/Opus file exposed as an extra audio input device
	VideoFile   string // IVF file exposed as an extra video input device
	AudioDevice string // initially selected audio device ID (empty = first)
	VideoDevice string // initially selected video device ID (empty = first)

	RecordDir string // remote tracks are recorded here when set

	ICEServers []webrtc.ICEServer // empty = host candidates only

	BoardPort   int    // buffer board port; 0 disables the board
	BoardListen bool   // board on all interfaces instead of 127.0.0.1
	WatchURL    string // watch mode: board URL to mirror

	StatsInterval time.Duration
	Debug         bool
}

// BoardAddr returns the listen address for the buffer board, or "" when
// the board is disabled.
func (c Config) BoardAddr() string {
	switch {
	case c.BoardPort <= 0:
		return ""
	case c.BoardListen:
		return fmt.Sprintf(":%d", c.BoardPort)
	default:
		return fmt.Sprintf("127.0.0.1:%d", c.BoardPort)
	}
}

// Load parses args (without the program name) on top of the process
// environment.
func Load(args []string) (Config, error) {
	return load(os.LookupEnv, args)
}

func load(lookup func(string) (string, bool), args []string) (Config, error) {
	env := func(key, def string) string {
		if v, ok := lookup(key); ok {
			return strings.TrimSpace(v)
		}
		return def
	}

	boardPortDefault, err := envInt(env(envBoardPort, ""), 0)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", envBoardPort, err)
	}
	statsDefault := defaultStatsInterval
	if raw := env(envStatsInterval, ""); raw != "" {
		statsDefault, err = time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", envStatsInterval, err)
		}
	}
	debugDefault, _ := strconv.ParseBool(env(envDebug, "false"))

	var cfg Config
	var stun string

	fs := flag.NewFlagSet("pastecall", flag.ContinueOnError)
	fs.StringVar(&cfg.AudioFile, "audio-file", env(envAudioFile, ""), "Ogg/Opus file to expose as an audio input")
	fs.StringVar(&cfg.VideoFile, "video-file", env(envVideoFile, ""), "IVF (VP8/VP9/AV1) file to expose as a video input")
	fs.StringVar(&cfg.AudioDevice, "audio", "", "Initially selected audio device ID")
	fs.StringVar(&cfg.VideoDevice, "video", "", "Initially selected video device ID")
	fs.StringVar(&cfg.RecordDir, "record", env(envRecordDir, ""), "Directory to record remote tracks into")
	fs.StringVar(&stun, "stun", env(envStunURLs, ""), "Comma-separated STUN URLs (default: host candidates only)")
	fs.IntVar(&cfg.BoardPort, "board", boardPortDefault, "Serve the text buffers on this WebSocket port (0 = off)")
	fs.BoolVar(&cfg.BoardListen, "board-listen", false, "Serve the buffer board on all interfaces")
	fs.StringVar(&cfg.WatchURL, "watch", "", "Mirror the buffers of another instance's board (ws://host:port/ws?pin=1234)")
	fs.DurationVar(&cfg.StatsInterval, "stats", statsDefault, "Media stats report interval (0 = off)")
	fs.BoolVar(&cfg.Debug, "debug", debugDefault, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg.ICEServers, err = iceServers(lookup, stun)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and mutually exclusive modes.
func (c Config) Validate() error {
	var errs []error
	if c.BoardPort < 0 || c.BoardPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid board port %d (must be 0~65535)", c.BoardPort))
	}
	if c.StatsInterval < 0 {
		errs = append(errs, fmt.Errorf("invalid stats interval %s", c.StatsInterval))
	}
	if c.WatchURL != "" && c.BoardPort > 0 {
		errs = append(errs, errors.New("-watch and -board cannot be combined"))
	}
	return errors.Join(errs...)
}

func envInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
