package buchifile

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/omega-toolkit/pkg/buchi"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width       int
	Height      int
	Padding     int
	StateRadius int
	Title       string
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:       800,
		Height:      600,
		Padding:     60,
		StateRadius: 26,
		Title:       "",
	}
}

// Colors used in rendering
var (
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorBlack      = color.RGBA{51, 51, 51, 255}    // #333
	colorGray       = color.RGBA{102, 102, 102, 255} // #666
	colorInitial    = color.RGBA{232, 245, 233, 255} // #e8f5e9
	colorInitialBdr = color.RGBA{46, 125, 50, 255}   // #2e7d32
	colorAccepting  = color.RGBA{230, 81, 0, 255}    // #e65100
)

// renderContext holds rendering parameters including scale.
type renderContext struct {
	img       *image.RGBA
	scale     float64
	lineWidth float64
	face      font.Face
}

func newRenderContext(img *image.RGBA, scale int) *renderContext {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // embedded font
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(12 * scale),
		DPI:     72,
		Hinting: font.HintingNone, // supersampled instead
	})
	if err != nil {
		panic(err)
	}
	return &renderContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: float64(scale) * 2,
		face:      face,
	}
}

// RenderPNG renders a Büchi automaton to PNG. States are laid out on a
// circle; accepting edges are drawn in the accent color. Uses 4x
// supersampling for smoother output.
func RenderPNG(a *buchi.Automaton, w io.Writer, opts PNGOptions) error {
	scale := 4
	large := opts
	large.Width = opts.Width * scale
	large.Height = opts.Height * scale
	large.Padding = opts.Padding * scale
	large.StateRadius = opts.StateRadius * scale

	largeImg := renderInternal(a, large, scale)

	finalImg := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(finalImg, finalImg.Bounds(), largeImg, largeImg.Bounds(), draw.Over, nil)

	return png.Encode(w, finalImg)
}

func renderInternal(a *buchi.Automaton, opts PNGOptions, scale int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	ctx := newRenderContext(img, scale)

	// Background
	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			img.Set(x, y, colorWhite)
		}
	}

	if opts.Title != "" {
		drawTextCentered(ctx, opts.Width/2, opts.Padding/2, opts.Title, colorBlack)
	}

	n := a.NumStates()
	if n == 0 {
		return img
	}

	// Circular layout
	cx := float64(opts.Width) / 2
	cy := float64(opts.Height) / 2
	layoutR := math.Min(cx, cy) - float64(opts.Padding) - float64(opts.StateRadius)
	if layoutR < 0 {
		layoutR = 0
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for s := 0; s < n; s++ {
		angle := 2 * math.Pi * float64(s) / float64(n)
		if n == 1 {
			xs[s], ys[s] = cx, cy
		} else {
			xs[s] = cx + layoutR*math.Cos(angle-math.Pi/2)
			ys[s] = cy + layoutR*math.Sin(angle-math.Pi/2)
		}
	}

	r := float64(opts.StateRadius)

	// Edges first so circles overlay their endpoints.
	for s := 0; s < n; s++ {
		for _, e := range a.Out(s) {
			c := colorGray
			if e.Accepting {
				c = colorAccepting
			}
			label := e.Guard.String()
			if e.Accepting {
				label += " ⓿"
			}
			if e.Dst == s {
				drawSelfLoop(ctx, xs[s], ys[s], r, label, c)
				continue
			}
			dx := xs[e.Dst] - xs[s]
			dy := ys[e.Dst] - ys[s]
			dist := math.Hypot(dx, dy)
			if dist < 1 {
				continue
			}
			nx, ny := dx/dist, dy/dist
			// Bend paired edges apart so A->B and B->A stay readable.
			px, py := -ny, nx
			bend := 14 * ctx.scale
			x1 := xs[s] + nx*r + px*4*ctx.scale
			y1 := ys[s] + ny*r + py*4*ctx.scale
			x2 := xs[e.Dst] - nx*r + px*4*ctx.scale
			y2 := ys[e.Dst] - ny*r + py*4*ctx.scale
			mx := (x1+x2)/2 + px*bend
			my := (y1+y2)/2 + py*bend
			drawQuadBezierArrow(ctx, x1, y1, mx, my, x2, y2, c)
			drawTextCentered(ctx, int(mx+px*12*ctx.scale), int(my+py*12*ctx.scale), label, c)
		}
	}

	// State circles
	for s := 0; s < n; s++ {
		fill, border := colorWhite, colorBlack
		if s == a.Initial() {
			fill, border = colorInitial, colorInitialBdr
		}
		drawCircle(ctx, xs[s], ys[s], r, fill, border)
		drawTextCentered(ctx, int(xs[s]), int(ys[s]), a.StateName(s), colorBlack)
	}

	return img
}

func drawCircle(ctx *renderContext, cx, cy, r float64, fill, stroke color.Color) {
	img := ctx.img
	for dy := -r; dy <= r; dy++ {
		yn := dy / r
		if yn*yn <= 1 {
			xe := r * math.Sqrt(1-yn*yn)
			for dx := -xe; dx <= xe; dx++ {
				img.Set(int(cx+dx), int(cy+dy), fill)
			}
		}
	}
	thickness := ctx.lineWidth
	for angle := 0.0; angle < 2*math.Pi; angle += 0.005 {
		nx := math.Cos(angle)
		ny := math.Sin(angle)
		for t := -thickness / 2; t <= thickness/2; t += 0.5 {
			img.Set(int(cx+nx*(r+t)), int(cy+ny*(r+t)), stroke)
		}
	}
}

// drawLine draws a line between two points with thickness from context.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	img := ctx.img
	dx := x2 - x1
	dy := y2 - y1
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}
	dist := math.Hypot(dx, dy)
	halfThick := ctx.lineWidth / 2
	if dist < 1 {
		img.Set(int(x1), int(y1), c)
		return
	}
	perpX := -dy / dist
	perpY := dx / dist
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		mx := x1 + dx*t
		my := y1 + dy*t
		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(mx+perpX*offset), int(my+perpY*offset), c)
		}
	}
}

func drawArrowhead(ctx *renderContext, fromX, fromY, x, y float64, c color.Color) {
	dx := x - fromX
	dy := y - fromY
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	nx, ny := dx/dist, dy/dist
	arrowLen := 8.0 * ctx.scale
	arrowWidth := 4.0 * ctx.scale
	drawLine(ctx, x, y, x-nx*arrowLen+ny*arrowWidth, y-ny*arrowLen-nx*arrowWidth, c)
	drawLine(ctx, x, y, x-nx*arrowLen-ny*arrowWidth, y-ny*arrowLen+nx*arrowWidth, c)
}

// drawQuadBezierArrow draws a quadratic Bézier with an arrowhead at the
// far end.
func drawQuadBezierArrow(ctx *renderContext, x1, y1, cx, cy, x2, y2 float64, c color.Color) {
	const steps = 40
	px, py := x1, y1
	for i := 1; i <= steps; i++ {
		t := float64(i) / steps
		u := 1 - t
		x := u*u*x1 + 2*u*t*cx + t*t*x2
		y := u*u*y1 + 2*u*t*cy + t*t*y2
		drawLine(ctx, px, py, x, y, c)
		px, py = x, y
	}
	drawArrowhead(ctx, cx, cy, x2, y2, c)
}

func drawSelfLoop(ctx *renderContext, x, y, r float64, label string, c color.Color) {
	// Small circle sitting on top of the state.
	loopR := r * 0.6
	lx := x
	ly := y - r - loopR*0.8
	thickness := ctx.lineWidth
	for angle := 0.0; angle < 2*math.Pi; angle += 0.01 {
		nx := math.Cos(angle)
		ny := math.Sin(angle)
		for t := -thickness / 2; t <= thickness/2; t += 0.5 {
			ctx.img.Set(int(lx+nx*(loopR+t)), int(ly+ny*(loopR+t)), c)
		}
	}
	drawArrowhead(ctx, lx+loopR, ly, x+r*0.5, y-r*0.85, c)
	drawTextCentered(ctx, int(lx), int(ly-loopR-10*ctx.scale), label, c)
}

func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()
	metrics := ctx.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	baselineY := y + int(float64(ascent)*0.35)

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot: fixed.Point26_6{
			X: fixed.I(x - width/2),
			Y: fixed.I(baselineY),
		},
	}
	d.DrawString(text)
}
