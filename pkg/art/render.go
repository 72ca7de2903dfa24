package art

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/blacktop/go-termimg"
	"github.com/disintegration/imaging"

	"gitlab.com/tinyland/lab/presence-pulse/pkg/terminal"
)

// Renderer converts images to terminal escape strings. It wraps
// go-termimg for terminals with a real graphics protocol and falls back
// to Unicode half-blocks with 24-bit color everywhere else. Rendered
// strings are memoized per (url, size) so the card redraw on every tick
// does not re-encode the same cover.
type Renderer struct {
	protocol terminal.GraphicsProtocol
	caps     *terminal.Capabilities

	mu   sync.Mutex
	memo map[string]string
}

// NewRenderer creates a Renderer. protocolOverride follows the config
// values: "auto" (or empty) uses detection, anything else forces that
// protocol.
func NewRenderer(caps *terminal.Capabilities, protocolOverride string) *Renderer {
	proto := caps.Protocol
	if protocolOverride != "" && protocolOverride != "auto" {
		proto = terminal.SelectProtocolWithOverride(caps.Term, protocolOverride)
	}
	return &Renderer{
		protocol: proto,
		caps:     caps,
		memo:     make(map[string]string),
	}
}

// Protocol returns the active rendering protocol.
func (r *Renderer) Protocol() terminal.GraphicsProtocol {
	return r.protocol
}

// Render converts img to a terminal escape string fitting the given
// cell dimensions. key identifies the image for memoization; callers
// pass the source URL.
func (r *Renderer) Render(key string, img image.Image, widthCells, heightCells int) (string, error) {
	if img == nil {
		return "", fmt.Errorf("art: nil image")
	}
	if r.protocol == terminal.ProtocolNone {
		return "", fmt.Errorf("art: rendering disabled (protocol=none)")
	}
	if widthCells <= 0 || heightCells <= 0 {
		return "", fmt.Errorf("art: non-positive cell dimensions %dx%d", widthCells, heightCells)
	}

	memoKey := fmt.Sprintf("%s|%s|%dx%d", r.protocol, key, widthCells, heightCells)
	r.mu.Lock()
	if s, ok := r.memo[memoKey]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	var rendered string
	var err error
	switch r.protocol {
	case terminal.ProtocolKitty:
		rendered, err = renderTermimg(img, termimg.Kitty, widthCells, heightCells)
	case terminal.ProtocolITerm2:
		rendered, err = renderTermimg(img, termimg.ITerm2, widthCells, heightCells)
	case terminal.ProtocolSixel:
		rendered, err = renderTermimg(img, termimg.Sixel, widthCells, heightCells)
	default:
		rendered, err = renderHalfblocks(r.resizeForCells(img, widthCells, heightCells))
	}
	if err != nil {
		return "", fmt.Errorf("art: render failed: %w", err)
	}

	r.mu.Lock()
	if len(r.memo) > 64 {
		r.memo = make(map[string]string)
	}
	r.memo[memoKey] = rendered
	r.mu.Unlock()

	return rendered, nil
}

// resizeForCells scales img down to the pixel budget of the cell area.
// Halfblocks show two pixels per cell row, one per cell column.
func (r *Renderer) resizeForCells(img image.Image, widthCells, heightCells int) image.Image {
	maxW := widthCells
	maxH := heightCells * 2

	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	resized := imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	// Lanczos downscale softens edges; a light sharpen restores detail
	// that matters at these tiny sizes.
	return imaging.Sharpen(resized, 0.3)
}

// renderTermimg delegates to go-termimg for Kitty, iTerm2, and Sixel.
func renderTermimg(img image.Image, proto termimg.Protocol, widthCells, heightCells int) (string, error) {
	ti := termimg.New(img)
	if ti == nil {
		return "", fmt.Errorf("go-termimg: failed to create image wrapper")
	}
	ti.Protocol(proto).Size(widthCells, heightCells).Scale(termimg.ScaleFit)
	return ti.Render()
}

// renderHalfblocks renders using Unicode upper-half-block characters
// with 24-bit ANSI color. Each character cell encodes two vertical
// pixels: the top pixel as the foreground color (via U+2580) and the
// bottom pixel as the background color. Works on any terminal with
// true color support.
func renderHalfblocks(img image.Image) (string, error) {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return "", nil
	}

	nrgba := imaging.Clone(img)

	var b strings.Builder
	b.Grow(srcW * (srcH/2 + 1) * 30)

	for y := 0; y < srcH; y += 2 {
		if y > 0 {
			b.WriteString("\x1b[0m\n")
		}
		for x := 0; x < srcW; x++ {
			top := nrgba.NRGBAAt(x, y)

			hasBottom := y+1 < srcH
			var bot = top
			if hasBottom {
				bot = nrgba.NRGBAAt(x, y+1)
			}

			switch {
			case top.A == 0 && (!hasBottom || bot.A == 0):
				b.WriteString("\x1b[0m ")
			case top.A == 0:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▄", bot.R, bot.G, bot.B)
			case !hasBottom || bot.A == 0:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			default:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			}
		}
	}

	b.WriteString("\x1b[0m")
	return b.String(), nil
}
