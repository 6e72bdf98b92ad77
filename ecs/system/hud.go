package system

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/starcatcher/ecs"
	"github.com/milk9111/starcatcher/ecs/component"
	"golang.org/x/image/font/basicfont"
)

// HUDSystem draws screen-space text such as the score.
type HUDSystem struct {
	face ebtext.Face
}

func NewHUDSystem() *HUDSystem {
	return &HUDSystem{face: ebtext.NewGoXFace(basicfont.Face7x13)}
}

func (h *HUDSystem) Update(w *ecs.World) {}

func (h *HUDSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if h == nil || w == nil || screen == nil {
		return
	}
	ecs.ForEach(w, component.ScoreTextComponent.Kind(), func(e ecs.Entity, st *component.ScoreText) {
		scale := st.Scale
		if scale <= 0 {
			scale = 1
		}
		op := &ebtext.DrawOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(st.X, st.Y)
		op.ColorScale.ScaleWithColor(rgbColor(st.Color))
		ebtext.Draw(screen, st.Text, h.face, op)
	})
}

func rgbColor(rgb uint32) color.RGBA {
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}
}
