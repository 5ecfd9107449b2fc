package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/pterm/pterm"

	"github.com/1ureka/pastecall/internal/media"
	"github.com/1ureka/pastecall/internal/signaling"
	"github.com/1ureka/pastecall/internal/util"
)

// Menu entries that are always offered.
const (
	itemAudioSource = "Select audio source"
	itemVideoSource = "Select video source"
	itemShowSDP     = "Show SDP"
	itemShowICE     = "Show ICE candidates"
	itemPasteSDP    = "Paste SDP"
	itemPasteICE    = "Paste ICE candidates"
	itemStatus      = "Status"
	itemQuit        = "Quit"
)

// ErrQuit is returned by Step when the operator chose to quit.
var ErrQuit = errors.New("quit")

// DeviceLister enumerates input devices. *media.Devices implements it.
type DeviceLister interface {
	Enumerate() []media.DeviceInfo
}

// App is the interactive front end over one coordinator.
type App struct {
	coord    *signaling.Coordinator
	devices  DeviceLister
	controls *Controls
	prompt   Prompter

	audioID string
	videoID string
}

// NewApp wires the UI. audioID and videoID preselect devices; empty picks
// the first of each kind.
func NewApp(coord *signaling.Coordinator, devices DeviceLister, prompt Prompter, audioID, videoID string) *App {
	return &App{
		coord:    coord,
		devices:  devices,
		controls: NewControls(),
		prompt:   prompt,
		audioID:  audioID,
		videoID:  videoID,
	}
}

// Controls exposes the button table.
func (a *App) Controls() *Controls { return a.controls }

// Run shows the menu until the operator quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.listDevices()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.Step(ctx); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// Step shows the menu once and runs the chosen entry. Action failures are
// logged, not returned; only prompt failures and quitting end the loop.
func (a *App) Step(ctx context.Context) error {
	buttons := a.controls.EnabledButtons()
	options := make([]string, 0, len(buttons)+8)
	byLabel := make(map[string]Button, len(buttons))
	for _, b := range buttons {
		options = append(options, b.String())
		byLabel[b.String()] = b
	}
	options = append(options, itemAudioSource, itemVideoSource, itemShowSDP, itemShowICE,
		itemPasteSDP, itemPasteICE, itemStatus, itemQuit)

	choice, err := a.prompt.Select(fmt.Sprintf("[%s] choose an action", a.coord.State()), options)
	if err != nil {
		return err
	}

	if b, ok := byLabel[choice]; ok {
		a.press(ctx, b)
		return nil
	}

	switch choice {
	case itemAudioSource:
		return a.selectDevice(ctx, media.AudioInput, &a.audioID)
	case itemVideoSource:
		return a.selectDevice(ctx, media.VideoInput, &a.videoID)
	case itemShowSDP:
		showBuffer("SDP", a.coord.SDP().Get())
	case itemShowICE:
		showBuffer("ICE candidates", a.coord.ICE().Get())
	case itemPasteSDP:
		return a.paste(a.coord.SDP(), "Paste the relayed SDP")
	case itemPasteICE:
		return a.paste(a.coord.ICE(), "Paste the relayed ICE candidate batch")
	case itemStatus:
		a.showStatus()
	case itemQuit:
		return ErrQuit
	}
	return nil
}

// press runs one button. Failures are logged and swallowed.
func (a *App) press(ctx context.Context, b Button) {
	err := a.controls.Press(b, func() error {
		switch b {
		case GetMedia:
			return a.coord.AcquireMedia(ctx, a.audioID, a.videoID)
		case CreatePeerConnection:
			return a.coord.CreateConnection(ctx)
		case CreateOffer:
			return a.coord.CreateOffer(ctx)
		case AcceptOffer:
			return a.coord.AcceptOffer(ctx)
		case SetAnswer:
			return a.coord.ApplyAnswer(ctx)
		case SetICE:
			_, err := a.coord.ApplyCandidates(ctx)
			return err
		}
		return nil
	})
	if err != nil {
		util.LogError("%s failed: %v", b, err)
	}
}

// selectDevice changes the selected device and re-acquires media, as a
// device change always does.
func (a *App) selectDevice(ctx context.Context, kind media.Kind, selected *string) error {
	var infos []media.DeviceInfo
	for _, d := range a.devices.Enumerate() {
		if d.Kind == kind {
			infos = append(infos, d)
		}
	}
	if len(infos) == 0 {
		util.LogWarning("no %s devices", kind)
		return nil
	}

	labels := media.DisplayLabels(infos)
	choice, err := a.prompt.Select(fmt.Sprintf("Select %s", kind), labels)
	if err != nil {
		return err
	}
	for i, l := range labels {
		if l == choice {
			*selected = infos[i].ID
		}
	}

	a.press(ctx, GetMedia)
	return nil
}

func (a *App) paste(buf *signaling.Buffer, title string) error {
	text, err := a.prompt.Text(title, true)
	if err != nil {
		return err
	}
	buf.Set(text)
	util.LogInfo("%s buffer replaced (%s)", buf.Name(), util.BlobID(text))
	return nil
}

func (a *App) listDevices() {
	devices := a.devices.Enumerate()
	labels := media.DisplayLabels(devices)
	items := make([]pterm.BulletListItem, len(devices))
	for i, d := range devices {
		items[i] = pterm.BulletListItem{Text: fmt.Sprintf("%s  %s (%s)", d.Kind, labels[i], d.ID)}
	}
	_ = pterm.DefaultBulletList.WithItems(items).Render()
}

func (a *App) showStatus() {
	pterm.DefaultTable.WithData(a.statusRows()).Render()
	pterm.Println()
}

func (a *App) statusRows() pterm.TableData {
	return pterm.TableData{
		{"State", a.coord.State().String()},
		{"Role", a.coord.Role().String()},
		{"Connection", a.coord.ConnectionState().String()},
		{"Audio device", orDefault(a.audioID)},
		{"Video device", orDefault(a.videoID)},
		{"SDP", util.BlobID(a.coord.SDP().Get())},
		{"ICE", util.BlobID(a.coord.ICE().Get())},
		{"Remote tracks", fmt.Sprint(len(a.coord.RemoteStream().Tracks()))},
	}
}

func showBuffer(title, text string) {
	if text == "" {
		util.LogInfo("%s buffer is empty", title)
		return
	}
	pterm.DefaultBox.WithTitle(fmt.Sprintf("%s (%s)", title, util.BlobID(text))).Println(text)
	pterm.Println()
}

func orDefault(id string) string {
	if id == "" {
		return "(default)"
	}
	return id
}
