package component

// Tint multiplies the sprite colour by RGB (0xRRGGBB).
type Tint struct {
	RGB uint32
}

var TintComponent = NewComponent[Tint]()
