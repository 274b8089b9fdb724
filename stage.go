package fxpipe

// StageType selects the transform a pipeline stage applies.
type StageType int

const (
	stageUndefined StageType = iota // undefined
	// StageConvolution applies Kernel to the RGB channels.
	StageConvolution
	// StageMorphology erodes or dilates with a (2*Radius+1) square window.
	StageMorphology
	// StageBitPlane renders one binary digit of quantized luma as black/white.
	StageBitPlane
	// StageDecompose outputs a single color-space component of each pixel.
	StageDecompose
	// StageMotionHeatmap highlights pixels whose luma moved beyond Threshold
	// relative to the raw frame of the previous tick.
	StageMotionHeatmap
	// StageCustom runs a user-supplied per-pixel transform program.
	StageCustom
)

func (t StageType) String() string {
	switch t {
	case StageConvolution:
		return "convolution"
	case StageMorphology:
		return "morphology"
	case StageBitPlane:
		return "bitplane"
	case StageDecompose:
		return "decompose"
	case StageMotionHeatmap:
		return "motion"
	case StageCustom:
		return "custom"
	default:
		return "undefined"
	}
}

// MorphOp selects the morphology operator.
type MorphOp int

const (
	// MorphErode takes the per-channel minimum over the window.
	MorphErode MorphOp = iota
	// MorphDilate takes the per-channel maximum over the window.
	MorphDilate
)

func (op MorphOp) String() string {
	if op == MorphDilate {
		return "dilate"
	}
	return "erode"
}

// Channel selects the component output by a decompose stage.
type Channel int

const (
	// ChannelRGB passes the pixel through unchanged.
	ChannelRGB Channel = iota
	// ChannelGray outputs luma.
	ChannelGray
	// ChannelHue outputs HSV hue scaled to 0..255.
	ChannelHue
	// ChannelSaturation outputs HSV saturation scaled to 0..255.
	ChannelSaturation
	// ChannelValue outputs HSV value scaled to 0..255.
	ChannelValue
)

func (c Channel) String() string {
	switch c {
	case ChannelGray:
		return "gray"
	case ChannelHue:
		return "hue"
	case ChannelSaturation:
		return "saturation"
	case ChannelValue:
		return "value"
	default:
		return "rgb"
	}
}

// DefaultMotionThreshold is the luma difference, on a 0..1 scale, above
// which a motion stage highlights a pixel.
const DefaultMotionThreshold = 0.05

// Stage describes one configured step of the pipeline. Only the fields of
// the selected Type are meaningful. Stages are plain data: the engine
// snapshots them at the start of a tick and never mutates them.
type Stage struct {
	ID     string
	Type   StageType
	Active bool

	// StageConvolution
	Kernel Kernel
	// StageMorphology
	Op     MorphOp
	Radius int
	// StageBitPlane, 1..8 where 1 is the least significant luma bit.
	Bit int
	// StageDecompose
	Channel Channel
	// StageMotionHeatmap, 0..1 normalized luma difference.
	Threshold float32
	// StageCustom per-pixel transform source text. See engine docs for the
	// program contract.
	Program string
	// StageCustom free parameters, wired to the program's param0/param1.
	P0, P1 float32
}

// Validate checks the parameters of the stage's selected type. A stage that
// fails validation is treated as inactive for the tick and reported.
func (s *Stage) Validate() error {
	switch s.Type {
	case StageConvolution:
		if err := s.Kernel.Validate(); err != nil {
			return &ParamError{StageID: s.ID, Field: "kernel", Reason: err.Error()}
		}
	case StageMorphology:
		if s.Radius < 1 || s.Radius > 32 {
			return &ParamError{StageID: s.ID, Field: "radius", Reason: "must be in 1..32"}
		}
		if s.Op != MorphErode && s.Op != MorphDilate {
			return &ParamError{StageID: s.ID, Field: "op", Reason: "unknown morphology operator"}
		}
	case StageBitPlane:
		if s.Bit < 1 || s.Bit > 8 {
			return &ParamError{StageID: s.ID, Field: "bit", Reason: "must be in 1..8"}
		}
	case StageDecompose:
		if s.Channel < ChannelRGB || s.Channel > ChannelValue {
			return &ParamError{StageID: s.ID, Field: "channel", Reason: "unknown channel"}
		}
	case StageMotionHeatmap:
		if s.Threshold < 0 || s.Threshold > 1 {
			return &ParamError{StageID: s.ID, Field: "threshold", Reason: "must be in 0..1"}
		}
	case StageCustom:
		if s.Program == "" {
			return &ParamError{StageID: s.ID, Field: "program", Reason: "empty program text"}
		}
	default:
		return &ParamError{StageID: s.ID, Field: "type", Reason: "unknown stage type"}
	}
	return nil
}

// NewConvolution returns an active convolution stage.
func NewConvolution(id string, k Kernel) *Stage {
	return &Stage{ID: id, Type: StageConvolution, Active: true, Kernel: k}
}

// NewMorphology returns an active morphology stage.
func NewMorphology(id string, op MorphOp, radius int) *Stage {
	return &Stage{ID: id, Type: StageMorphology, Active: true, Op: op, Radius: radius}
}

// NewBitPlane returns an active bit-plane slicing stage. bit is 1..8.
func NewBitPlane(id string, bit int) *Stage {
	return &Stage{ID: id, Type: StageBitPlane, Active: true, Bit: bit}
}

// NewDecompose returns an active color-space decomposition stage.
func NewDecompose(id string, ch Channel) *Stage {
	return &Stage{ID: id, Type: StageDecompose, Active: true, Channel: ch}
}

// NewMotionHeatmap returns an active motion stage with the default threshold.
func NewMotionHeatmap(id string) *Stage {
	return &Stage{ID: id, Type: StageMotionHeatmap, Active: true, Threshold: DefaultMotionThreshold}
}

// NewCustom returns an active custom-transform stage running program.
func NewCustom(id, program string) *Stage {
	return &Stage{ID: id, Type: StageCustom, Active: true, Program: program}
}
