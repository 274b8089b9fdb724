package fxpipe

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/soypat/geometry/ms2"
)

// Control represents an editable parameter of a pipeline stage.
// Stage editors present controls between ticks; a successful ChangeValue
// writes straight through to the owning stage.
type Control interface {
	// Display/human readable name and description.
	Describe() (name, description string)
	// ActualValue returns the current value of the control.
	ActualValue() any
	// ChangeValue attempts to update the ActualValue to newValue.
	ChangeValue(newValue any) error
}

type ControlOrdered[T cmp.Ordered] struct {
	Name        string
	Description string
	Value       T
	Min         T
	Max         T
	Step        T
	OnChange    func(T) error
}

func (co *ControlOrdered[T]) Describe() (name, description string) {
	return co.Name, co.Description
}
func (co *ControlOrdered[T]) ActualValue() any { return co.Value }
func (co *ControlOrdered[T]) ChangeValue(newValue any) error {
	v, ok := newValue.(T)
	if !ok {
		return fmt.Errorf("new value %T not of type %T", newValue, co.Value)
	}
	if v < co.Min || v > co.Max {
		return fmt.Errorf("new value %v exceeds limits %v..%v", v, co.Min, co.Max)
	}
	err := co.OnChange(v)
	if err == nil {
		co.Value = v
	}
	return err
}

type integer interface {
	~int | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64
}

// enum best generated with stringer commands.
type enum interface {
	integer
	fmt.Stringer
}

// ControlEnum maps to dropdown kind of list.
type ControlEnum[T enum] struct {
	Name        string
	Description string
	Value       T
	ValidValues []T
	OnChange    func(T) error
}

func (ce *ControlEnum[T]) Describe() (name, description string) {
	return ce.Name, ce.Description
}
func (ce *ControlEnum[T]) ActualValue() any {
	return ce.Value
}
func (ce *ControlEnum[T]) ChangeValue(newValue any) error {
	v, ok := newValue.(T)
	if !ok {
		return fmt.Errorf("new value %T not of type %T", newValue, ce.Value)
	}
	if !slices.Contains(ce.ValidValues, v) {
		return fmt.Errorf("value %v of %T not valid", v, v)
	}
	err := ce.OnChange(v)
	if err == nil {
		ce.Value = v
	}
	return err
}

// CurvePoint is a control point for curve-type controls.
// X represents input (0-1), Y represents output (0-1).
type CurvePoint = ms2.Vec

// ControlCurve is a spline curve control with editable control points.
// Points are in normalized 0-1 range for both X (input) and Y (output).
// Custom transform editors use it for tone curves sampled into the
// program's free parameters.
type ControlCurve struct {
	Name        string
	Description string
	Points      []CurvePoint // Control points, X/Y in 0-1 range.
	OnChange    func([]CurvePoint) error
}

func (cc *ControlCurve) Describe() (name, description string) {
	return cc.Name, cc.Description
}

func (cc *ControlCurve) ActualValue() any {
	return cc.Points
}

func (cc *ControlCurve) ChangeValue(newValue any) error {
	pts, ok := newValue.([]CurvePoint)
	if !ok {
		return fmt.Errorf("new value %T not of type []CurvePoint", newValue)
	}
	err := cc.OnChange(pts)
	if err == nil {
		cc.Points = pts
	}
	return err
}

// Controls returns the editable parameters of the stage for its type.
// The returned controls write through to the stage on ChangeValue.
func (s *Stage) Controls() []Control {
	switch s.Type {
	case StageConvolution:
		return []Control{
			&ControlOrdered[float32]{
				Name:        "Factor",
				Description: "Normalization factor applied to the weighted sum",
				Value:       s.Kernel.EffectiveFactor(),
				Min:         -8, Max: 8, Step: 0.05,
				OnChange: func(v float32) error { s.Kernel.Factor = v; return nil },
			},
			&ControlOrdered[float32]{
				Name:        "Bias",
				Description: "Offset added after normalization, 0..255 units",
				Value:       s.Kernel.Bias,
				Min:         -255, Max: 255, Step: 1,
				OnChange: func(v float32) error { s.Kernel.Bias = v; return nil },
			},
		}
	case StageMorphology:
		return []Control{
			&ControlEnum[MorphOp]{
				Name:        "Operator",
				Description: "Per-channel minimum (erode) or maximum (dilate)",
				Value:       s.Op,
				ValidValues: []MorphOp{MorphErode, MorphDilate},
				OnChange:    func(op MorphOp) error { s.Op = op; return nil },
			},
			&ControlOrdered[int]{
				Name:        "Radius",
				Description: "Window radius; the window side is 2*radius+1",
				Value:       s.Radius,
				Min:         1, Max: 32, Step: 1,
				OnChange: func(v int) error { s.Radius = v; return nil },
			},
		}
	case StageBitPlane:
		return []Control{
			&ControlOrdered[int]{
				Name:        "Bit",
				Description: "Luma bit plane, 1 (least significant) to 8",
				Value:       s.Bit,
				Min:         1, Max: 8, Step: 1,
				OnChange: func(v int) error { s.Bit = v; return nil },
			},
		}
	case StageDecompose:
		return []Control{
			&ControlEnum[Channel]{
				Name:        "Channel",
				Description: "Color-space component to display",
				Value:       s.Channel,
				ValidValues: []Channel{ChannelRGB, ChannelGray, ChannelHue, ChannelSaturation, ChannelValue},
				OnChange:    func(c Channel) error { s.Channel = c; return nil },
			},
		}
	case StageMotionHeatmap:
		return []Control{
			&ControlOrdered[float32]{
				Name:        "Threshold",
				Description: "Normalized luma difference that triggers the highlight",
				Value:       s.Threshold,
				Min:         0, Max: 1, Step: 0.01,
				OnChange: func(v float32) error { s.Threshold = v; return nil },
			},
		}
	case StageCustom:
		return []Control{
			&ControlOrdered[float32]{
				Name:        "Param 0",
				Description: "Free parameter exposed to the program as param0",
				Value:       s.P0,
				Min:         0, Max: 1, Step: 0.01,
				OnChange: func(v float32) error { s.P0 = v; return nil },
			},
			&ControlOrdered[float32]{
				Name:        "Param 1",
				Description: "Free parameter exposed to the program as param1",
				Value:       s.P1,
				Min:         0, Max: 1, Step: 0.01,
				OnChange: func(v float32) error { s.P1 = v; return nil },
			},
		}
	}
	return nil
}
