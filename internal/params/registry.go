package params

// ModeNames and ShapeNames are the option labels of the two choice
// parameters, in host index order.
var (
	ModeNames  = []string{"Chorus", "Flanger", "Phaser", "Ensemble"}
	ShapeNames = []string{"Sine", "Triangle", "Square", "Random"}
)

var registry = []Def{
	{ID: Mode, Name: "Mode", Kind: Choice, Min: 0, Max: 3, Step: 1, Default: 0, Choices: ModeNames},
	{ID: Rate, Name: "Rate", Kind: Continuous, Unit: "Hz", Min: 0.01, Max: 20, Step: 0.01, Default: 1.0, Decimals: 2},
	{ID: Depth, Name: "Depth", Kind: Continuous, Unit: "%", Min: 0, Max: 100, Step: 0.1, Default: 50.0, Decimals: 1},
	{ID: Shape, Name: "Shape", Kind: Choice, Min: 0, Max: 3, Step: 1, Default: 0, Choices: ShapeNames},
	{ID: StereoPhase, Name: "Stereo", Kind: Continuous, Unit: "°", Min: 0, Max: 180, Step: 0.1, Default: 90.0, Decimals: 1},
	{ID: Feedback, Name: "Feedback", Kind: Continuous, Unit: "%", Min: -99, Max: 99, Step: 0.1, Default: 0.0, Decimals: 1},
	{ID: Voices, Name: "Voices", Kind: Continuous, Min: 1, Max: 4, Step: 1, Default: 2.0},
	{ID: Spread, Name: "Spread", Kind: Continuous, Unit: "%", Min: 0, Max: 100, Step: 0.1, Default: 50.0, Decimals: 1},
	{ID: Warmth, Name: "Warmth", Kind: Continuous, Unit: "%", Min: 0, Max: 100, Step: 0.1, Default: 0.0, Decimals: 1},
	{ID: Stages, Name: "Stages", Kind: Continuous, Min: 2, Max: 12, Step: 1, Default: 4.0},
	{ID: Color, Name: "Color", Kind: Continuous, Unit: "%", Min: 0, Max: 100, Step: 0.1, Default: 50.0, Decimals: 1},
	{ID: Mix, Name: "Mix", Kind: Continuous, Unit: "%", Min: 0, Max: 100, Step: 0.1, Default: 50.0, Decimals: 1},
	{ID: Width, Name: "Width", Kind: Continuous, Unit: "%", Min: 0, Max: 200, Step: 1, Default: 100.0, Decimals: 1},
	{ID: Bypass, Name: "Bypass", Kind: Toggle, Min: 0, Max: 1, Step: 1, Default: 0},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(registry))
	for i, d := range registry {
		m[d.ID] = i
	}
	return m
}()

// All returns every registered parameter in registry order.
func All() []Def {
	out := make([]Def, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the definition registered under id.
func Lookup(id string) (Def, error) {
	i, ok := byID[id]
	if !ok {
		return Def{}, &UnknownError{ID: id}
	}
	return registry[i], nil
}

// MustLookup is Lookup for ids known at compile time.
func MustLookup(id string) Def {
	d, err := Lookup(id)
	if err != nil {
		panic(err)
	}
	return d
}

// IDs returns the registered ids in registry order.
func IDs() []string {
	ids := make([]string, len(registry))
	for i, d := range registry {
		ids[i] = d.ID
	}
	return ids
}
