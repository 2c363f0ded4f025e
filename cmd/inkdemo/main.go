// Command inkdemo runs the stroke pipeline end to end: it synthesizes a
// stylus stroke, round-trips it through the wire codec, models and
// evaluates it with a brush, and rasterizes the resulting tip states into
// a PNG.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"golang.org/x/image/vector"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/preset"
	"github.com/gogpu/ink/session"
	"github.com/gogpu/ink/wire"
)

func main() {
	var (
		width     = flag.Int("width", 800, "image width")
		height    = flag.Int("height", 600, "image height")
		output    = flag.String("output", "stroke.png", "output file")
		brushPath = flag.String("brush", "", "brush family YAML (default: built-in demo brush)")
		seed      = flag.Uint64("seed", 7, "noise seed for the built-in brush")
		verbose   = flag.Bool("v", false, "log pipeline internals")
	)
	flag.Parse()

	if *verbose {
		ink.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	brush, err := demoBrush(*brushPath, *seed)
	if err != nil {
		log.Fatalf("Failed to build brush: %v", err)
	}

	raw := synthesizeStroke(*width, *height)

	// Round-trip through the wire codec, as input from a remote source
	// would arrive.
	decoded, wireBytes, err := wireRoundTrip(raw)
	if err != nil {
		log.Fatalf("Wire round-trip failed: %v", err)
	}

	tips := runPipeline(brush, decoded)

	img := render(*width, *height, brush, tips)
	if err := writePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Stroke saved to %s (%dx%d): %d raw samples, %d wire bytes, %d stamps\n",
		*output, *width, *height, len(raw), wireBytes, len(tips))
}

// demoBrush loads a brush family from path, or builds the built-in demo
// brush when no path is given.
func demoBrush(path string, seed uint64) (ink.Brush, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return ink.Brush{}, err
		}
		defer f.Close()
		return preset.LoadBrush(f)
	}
	return builtinBrush(seed)
}

// builtinBrush is a pressure-sensitive pen with a damped size response, a
// constant-size fallback for pressureless tools, noise-driven hue drift,
// and speed-based fading.
func builtinBrush(seed uint64) (ink.Brush, error) {
	sizeByPressure, err := ink.NewBrushBehavior(
		ink.SourceNode{Source: ink.SourcePressure, ValueRange: [2]float32{0, 1}},
		ink.DampingNode{Source: ink.DampingTimeInSeconds, Gap: 0.04},
		ink.ResponseNode{Response: ink.EasingEaseInOut},
		ink.TargetNode{Target: ink.TargetSizeMultiplier, OutputRange: [2]float32{0.35, 1.8}},
	)
	if err != nil {
		return ink.Brush{}, err
	}
	sizeFallback, err := ink.NewBrushBehavior(
		ink.ConstantNode{Value: 0.6},
		ink.FallbackFilterNode{IsFallbackFor: ink.OptionalPropertyPressure},
		ink.TargetNode{Target: ink.TargetSizeMultiplier, OutputRange: [2]float32{0.35, 1.8}},
	)
	if err != nil {
		return ink.Brush{}, err
	}
	hueDrift, err := ink.NewBrushBehavior(
		ink.NoiseNode{Seed: seed, VaryOver: ink.NoiseOverDistanceInBrushSizes, BasePeriod: 3},
		ink.TargetNode{Target: ink.TargetHueOffsetInTurns, OutputRange: [2]float32{0, 0.15}},
	)
	if err != nil {
		return ink.Brush{}, err
	}
	fadeWithSpeed, err := ink.NewBrushBehavior(
		ink.SourceNode{Source: ink.SourceSpeedInBrushSizes, ValueRange: [2]float32{0, 60}},
		ink.TargetNode{Target: ink.TargetOpacityMultiplier, OutputRange: [2]float32{1.1, 0.55}},
	)
	if err != nil {
		return ink.Brush{}, err
	}

	tip := ink.DefaultBrushTip().
		WithScale(ink.V2(1, 0.6)).
		WithRotation(0.6).
		WithOpacity(0.9)
	return ink.NewBrush(tip, ink.RGB(0.25, 0.55, 0.95), 26,
		sizeByPressure, sizeFallback, hueDrift, fadeWithSpeed)
}

// synthesizeStroke traces an elliptic spiral with a pressure swell, the way
// a flourish drawn by hand looks.
func synthesizeStroke(w, h int) []ink.StrokeInput {
	const (
		samples  = 220
		duration = 1.1 // seconds
	)
	cx, cy := float64(w)/2, float64(h)/2
	maxR := 0.4 * math.Min(float64(w), float64(h))

	inputs := make([]ink.StrokeInput, 0, samples)
	for i := 0; i < samples; i++ {
		u := float64(i) / (samples - 1)
		angle := 4 * math.Pi * u
		r := maxR * (0.12 + 0.88*u)
		pressure := 0.15 + 0.85*math.Sin(math.Pi*u)
		inputs = append(inputs, ink.StrokeInput{
			ToolType:         ink.ToolTypeStylus,
			Position:         ink.Pt(float32(cx+r*math.Cos(angle)), float32(cy+0.82*r*math.Sin(angle))),
			ElapsedTime:      ink.Seconds(float32(u * duration)),
			StrokeUnitLength: ink.Some(ink.Centimeters(ink.CentimetersPerInch / 96)),
			Pressure:         ink.Some(float32(pressure)),
			Tilt:             ink.Some(float32(math.Pi / 5)),
			Orientation:      ink.Some(ink.NormalizedAngle(float32(angle / 2))),
		})
	}
	return inputs
}

// wireRoundTrip encodes the raw samples into the wire form, marshals the
// binary frame, and decodes it back, returning the decoded batch and the
// frame size.
func wireRoundTrip(raw []ink.StrokeInput) (ink.StrokeInputBatch, int, error) {
	batch, err := ink.MakeStrokeInputBatch(raw)
	if err != nil {
		return ink.StrokeInputBatch{}, 0, err
	}
	coded := wire.Encode(batch, wire.DefaultEncodeOptions())
	data, err := coded.MarshalBinary()
	if err != nil {
		return ink.StrokeInputBatch{}, 0, err
	}
	var parsed wire.CodedStrokeInputBatch
	if err := parsed.UnmarshalBinary(data); err != nil {
		return ink.StrokeInputBatch{}, 0, err
	}
	decoded, err := wire.DecodeBatch(parsed)
	if err != nil {
		return ink.StrokeInputBatch{}, 0, err
	}
	return decoded, len(data), nil
}

// runPipeline feeds the stroke to a session in frame-sized chunks, the way
// an input loop would, and returns the final tip states.
func runPipeline(brush ink.Brush, batch ink.StrokeInputBatch) []ink.BrushTipState {
	s := session.New(brush, ink.ModelerSlidingWindow, ink.WithUpsamplingPeriod(ink.Millis(3)))

	const frame = 12
	var tips []ink.BrushTipState
	for at := 0; at < batch.Len(); at += frame {
		end := at + frame
		if end > batch.Len() {
			end = batch.Len()
		}
		var real ink.StrokeInputBatch
		for i := at; i < end; i++ {
			if err := real.Append(batch.Get(i)); err != nil {
				log.Fatalf("Rejected input %d: %v", i, err)
			}
		}
		tips = s.Extend(real, ink.StrokeInputBatch{}, batch.Get(end-1).ElapsedTime)
	}
	return tips
}

func render(w, h int, brush ink.Brush, tips []ink.BrushTipState) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{R: 18, G: 18, B: 24, A: 255}), image.Point{}, draw.Src)
	for _, tip := range tips {
		drawStamp(img, brush, tip)
	}
	return img
}

// drawStamp rasterizes one tip state as a filled rotated ellipse.
func drawStamp(dst *image.RGBA, brush ink.Brush, tip ink.BrushTipState) {
	rx, ry := float64(tip.Width)/2, float64(tip.Height)/2
	if rx <= 0 || ry <= 0 {
		return
	}
	cx, cy := float64(tip.Position.X), float64(tip.Position.Y)
	rot := float64(tip.Rotation)

	// Conservative bounds of the rotated ellipse.
	sin, cos := math.Sincos(rot)
	bx := math.Hypot(rx*cos, ry*sin)
	by := math.Hypot(rx*sin, ry*cos)
	box := image.Rect(
		int(math.Floor(cx-bx))-1, int(math.Floor(cy-by))-1,
		int(math.Ceil(cx+bx))+1, int(math.Ceil(cy+by))+1,
	).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	appendEllipse(z, cx-float64(box.Min.X), cy-float64(box.Min.Y), rx, ry, rot)

	col := tip.ColorShift().Apply(brush.Color)
	col.A = min32(col.A*tip.OpacityMultiplier, 1)
	z.Draw(dst, box, image.NewUniform(col.Color()), image.Point{})
}

// kappa is the control-point distance approximating a quarter circle with
// one cubic segment.
const kappa = 0.5522847498

// appendEllipse adds a full ellipse around (cx, cy) to the rasterizer,
// rotated by rot, as four cubic arcs.
func appendEllipse(z *vector.Rasterizer, cx, cy, rx, ry, rot float64) {
	sin, cos := math.Sincos(rot)
	at := func(ux, uy float64) (float32, float32) {
		return float32(cx + ux*cos - uy*sin), float32(cy + ux*sin + uy*cos)
	}
	quarter := func(x1, y1, x2, y2, x3, y3 float64) {
		bx, by := at(x1, y1)
		cx2, cy2 := at(x2, y2)
		dx, dy := at(x3, y3)
		z.CubeTo(bx, by, cx2, cy2, dx, dy)
	}
	x0, y0 := at(rx, 0)
	z.MoveTo(x0, y0)
	quarter(rx, ry*kappa, rx*kappa, ry, 0, ry)
	quarter(-rx*kappa, ry, -rx, ry*kappa, -rx, 0)
	quarter(-rx, -ry*kappa, -rx*kappa, -ry, 0, -ry)
	quarter(rx*kappa, -ry, rx, -ry*kappa, rx, 0)
	z.ClosePath()
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
