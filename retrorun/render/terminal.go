package render

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-retrorun/retrorun/timing"
	"github.com/valerio/go-retrorun/retrorun/video"
)

// Player shows a job's frames in a terminal, two pixel rows per text row.
type Player struct {
	screen  tcell.Screen
	limiter timing.Limiter
	stopped atomic.Bool
	last    video.Frame

	// shaded draws four grey levels for terminals without 256 colors.
	shaded bool
}

var shadeColors = []tcell.Color{
	tcell.ColorBlack,
	tcell.ColorGray,
	tcell.ColorSilver,
	tcell.ColorWhite,
}

// NewTerminalPlayer opens the controlling terminal and paces playback at fps.
func NewTerminalPlayer(fps float64) (*Player, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %v", err)
	}
	return NewPlayer(screen, timing.NewTickerLimiter(fps)), nil
}

// NewPlayer draws on an already initialized screen.
func NewPlayer(screen tcell.Screen, limiter timing.Limiter) *Player {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()
	return &Player{screen: screen, limiter: limiter, shaded: screen.Colors() < 256}
}

// Play shows frames in order until they run out or the user quits with
// Esc or q. Blank frames keep the previous frame on screen.
func (p *Player) Play(frames []video.Frame) {
	go p.handleInput()

	for i, f := range frames {
		if p.stopped.Load() {
			slog.Info("Playback stopped", "frame", i, "total", len(frames))
			return
		}
		p.Draw(f)
		p.screen.Show()
		p.limiter.WaitForNextFrame()
	}
}

// Draw renders f. A blank frame redraws the last rendered frame.
func (p *Player) Draw(f video.Frame) {
	if f.Blank() {
		f = p.last
		if f.Blank() {
			return
		}
	}
	p.last = f

	if p.shaded {
		p.drawShaded(f)
		return
	}

	for y := 0; y < f.Height; y += 2 {
		for x := 0; x < f.Width; x++ {
			top := video.RGBA(f.GetPixel(x, y))
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B)))
			if y+1 < f.Height {
				bottom := video.RGBA(f.GetPixel(x, y+1))
				style = style.Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			}
			p.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

func (p *Player) drawShaded(f video.Frame) {
	for y := 0; y < f.Height; y += 2 {
		for x := 0; x < f.Width; x++ {
			top := PixelToShade(f.GetPixel(x, y))
			bottom := 3
			if y+1 < f.Height {
				bottom = PixelToShade(f.GetPixel(x, y+1))
			}

			char := GetHalfBlockChar(top, bottom)
			style := tcell.StyleDefault
			switch char {
			case '█':
				style = style.Foreground(shadeColors[top])
			case '▄':
				style = style.Foreground(shadeColors[bottom]).Background(shadeColors[top])
			default:
				style = style.Foreground(shadeColors[top]).Background(shadeColors[bottom])
			}
			p.screen.SetContent(x, y/2, char, nil, style)
		}
	}
}

// Stopped reports whether the user asked to quit.
func (p *Player) Stopped() bool {
	return p.stopped.Load()
}

// Close restores the terminal.
func (p *Player) Close() {
	p.stopped.Store(true)
	p.screen.Fini()
}

func (p *Player) handleInput() {
	for !p.stopped.Load() {
		ev := p.screen.PollEvent()
		if ev == nil {
			return
		}
		p.handleEvent(ev)
	}
}

func (p *Player) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			p.stopped.Store(true)
		}
	case *tcell.EventResize:
		p.screen.Sync()
	}
}
