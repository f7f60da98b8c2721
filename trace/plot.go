package trace

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	plotBackground = color.RGBA{24, 24, 28, 255}
	plotAxis       = color.RGBA{70, 70, 80, 255}
	plotPath       = color.RGBA{255, 128, 79, 255}
	plotStart      = color.RGBA{90, 200, 90, 255}
	plotEnd        = color.RGBA{220, 70, 70, 255}
	plotText       = color.RGBA{220, 220, 220, 255}
)

const plotMargin = 24

// plotView maps world XZ to pixels, looking down the Y axis with +X to the
// right and +Z towards the bottom of the image.
type plotView struct {
	centerX, centerZ float32
	scale            float32
	offX, offY       float32
}

func newPlotView(samples []Sample, width, height int) plotView {
	minX, maxX := float32(0), float32(0)
	minZ, maxZ := float32(0), float32(0)
	for i, s := range samples {
		x, z := s.Position.X(), s.Position.Z()
		if i == 0 || x < minX {
			minX = x
		}
		if i == 0 || x > maxX {
			maxX = x
		}
		if i == 0 || z < minZ {
			minZ = z
		}
		if i == 0 || z > maxZ {
			maxZ = z
		}
	}

	spanX := math32.Max(maxX-minX, 1)
	spanZ := math32.Max(maxZ-minZ, 1)
	availW := float32(width - 2*plotMargin)
	availH := float32(height - 2*plotMargin)
	scale := math32.Max(math32.Min(availW/spanX, availH/spanZ), 0)

	return plotView{
		centerX: (minX + maxX) / 2,
		centerZ: (minZ + maxZ) / 2,
		scale:   scale,
		offX:    float32(width) / 2,
		offY:    float32(height) / 2,
	}
}

func (v plotView) project(p mgl32.Vec3) (float32, float32) {
	return v.offX + (p.X()-v.centerX)*v.scale, v.offY + (p.Z()-v.centerZ)*v.scale
}

// Plot renders a top-down view of the camera path with its start and end
// marked.
func Plot(samples []Sample, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(plotBackground), image.Point{}, draw.Src)

	if len(samples) == 0 {
		label(img, plotMargin, height/2, "no samples")
		return img
	}

	view := newPlotView(samples, width, height)

	ox, oy := view.project(mgl32.Vec3{})
	stroke(img, 0, oy, float32(width), oy, 1, plotAxis)
	stroke(img, ox, 0, ox, float32(height), 1, plotAxis)

	for i := 1; i < len(samples); i++ {
		x0, y0 := view.project(samples[i-1].Position)
		x1, y1 := view.project(samples[i].Position)
		stroke(img, x0, y0, x1, y1, 2, plotPath)
	}

	first, last := samples[0], samples[len(samples)-1]
	sx, sy := view.project(first.Position)
	ex, ey := view.project(last.Position)
	marker(img, sx, sy, plotStart)
	marker(img, ex, ey, plotEnd)
	label(img, int(sx)+6, int(sy)-6, "start")
	label(img, int(ex)+6, int(ey)-6, "end")

	label(img, 6, 16, fmt.Sprintf("frames %d-%d", first.Index, last.Index))
	label(img, 6, height-6, fmt.Sprintf("end (%.2f, %.2f, %.2f)", last.Position.X(), last.Position.Y(), last.Position.Z()))
	return img
}

// stroke fills a quad of the given width around the segment.
func stroke(img *image.RGBA, x0, y0, x1, y1, width float32, clr color.Color) {
	dx, dy := x1-x0, y1-y0
	length := math32.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2

	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.MoveTo(x0+nx, y0+ny)
	r.LineTo(x1+nx, y1+ny)
	r.LineTo(x1-nx, y1-ny)
	r.LineTo(x0-nx, y0-ny)
	r.ClosePath()
	r.Draw(img, b, image.NewUniform(clr), image.Point{})
}

func marker(img *image.RGBA, x, y float32, clr color.Color) {
	const half = 4
	rect := image.Rect(int(x)-half, int(y)-half, int(x)+half+1, int(y)+half+1)
	draw.Draw(img, rect.Intersect(img.Bounds()), image.NewUniform(clr), image.Point{}, draw.Src)
}

func label(img *image.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(plotText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
