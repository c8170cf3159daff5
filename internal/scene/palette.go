package scene

type Palette struct {
	Primary   Color
	Secondary Color
	Glow      Color
}

var (
	backgroundInner = Hex("#1a1a2e")
	backgroundOuter = Hex("#0d0d1a")
	dialFill        = Hex("#00000040")
	labelColor      = Hex("#ffffff80")
)

var palettes = map[Mode]Palette{
	Chorus:   {Primary: Hex("#00d4ff"), Secondary: Hex("#0088aa"), Glow: Hex("#00d4ff4d")},
	Flanger:  {Primary: Hex("#ff6b00"), Secondary: Hex("#aa4400"), Glow: Hex("#ff6b004d")},
	Phaser:   {Primary: Hex("#aa00ff"), Secondary: Hex("#6600aa"), Glow: Hex("#aa00ff4d")},
	Ensemble: {Primary: Hex("#00ff88"), Secondary: Hex("#00aa55"), Glow: Hex("#00ff884d")},
}

// Palette returns the mode's colors; unknown modes use Chorus.
func (m Mode) Palette() Palette {
	if p, ok := palettes[m]; ok {
		return p
	}
	return palettes[Chorus]
}
