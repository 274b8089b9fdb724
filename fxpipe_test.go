package fxpipe

import (
	"errors"
	"testing"
)

func TestFrameAccessors(t *testing.T) {
	f := NewFrame(8, 6)
	if f.NumPixels() != 48 || f.Size() != 48*4 {
		t.Fatalf("NumPixels=%d Size=%d", f.NumPixels(), f.Size())
	}
	f.SetRGBA8(3, 2, 10, 20, 30, 40)
	r, g, b, a := f.RGBA8(3, 2)
	if r != 10 || g != 20 || b != 30 || a != 40 {
		t.Fatalf("RGBA8 = %d,%d,%d,%d", r, g, b, a)
	}
	if !f.In(0, 0) || !f.In(7, 5) || f.In(8, 0) || f.In(0, -1) {
		t.Fatal("In bounds check wrong")
	}
	img := f.RGBA()
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("RGBA bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(3, 2); got.R != 10 || got.A != 40 {
		t.Fatalf("RGBAAt = %+v", got)
	}
}

func TestFrameCloneIsolated(t *testing.T) {
	f := NewFrame(4, 4)
	f.SetRGBA8(1, 1, 99, 0, 0, 255)
	c := f.Clone()
	c.SetRGBA8(1, 1, 1, 0, 0, 255)
	if r, _, _, _ := f.RGBA8(1, 1); r != 99 {
		t.Fatal("Clone shares pixel storage")
	}
}

func TestFrameValidate(t *testing.T) {
	if err := (&Frame{}).Validate(); err == nil {
		t.Fatal("zero frame valid")
	}
	bad := NewFrame(4, 4)
	bad.Pix = bad.Pix[:10]
	if err := bad.Validate(); err == nil {
		t.Fatal("truncated Pix valid")
	}
	if err := NewFrame(1, 1).Validate(); err != nil {
		t.Fatalf("valid frame rejected: %v", err)
	}
}

func TestStageValidate(t *testing.T) {
	if err := NewConvolution("c", KernelBoxBlur(3)).Validate(); err != nil {
		t.Fatalf("box blur stage: %v", err)
	}
	bad := NewConvolution("c", NewKernel(3, 3, []float32{1}))
	if err := bad.Validate(); err == nil {
		t.Fatal("short kernel accepted")
	}
	for _, radius := range []int{0, -1, 33} {
		if err := NewMorphology("m", MorphErode, radius).Validate(); err == nil {
			t.Fatalf("radius %d accepted", radius)
		}
	}
	for _, bit := range []int{0, 9} {
		if err := NewBitPlane("b", bit).Validate(); err == nil {
			t.Fatalf("bit %d accepted", bit)
		}
	}
	motion := NewMotionHeatmap("mo")
	motion.Threshold = 1.5
	if err := motion.Validate(); err == nil {
		t.Fatal("threshold 1.5 accepted")
	}
	if err := NewCustom("p", "").Validate(); err == nil {
		t.Fatal("empty program accepted")
	}
	var pe *ParamError
	err := NewBitPlane("b", 0).Validate()
	if !errors.As(err, &pe) {
		t.Fatalf("error %T, want *ParamError", err)
	}
	if pe.StageID != "b" || pe.Field != "bit" {
		t.Fatalf("ParamError = %+v", pe)
	}
}

func TestPipelineEditing(t *testing.T) {
	a := NewBitPlane("a", 8)
	b := NewMorphology("b", MorphDilate, 1)
	c := NewMotionHeatmap("c")
	p := NewPipeline(a, b)
	p.Add(c)

	if got := p.Stage("b"); got != b {
		t.Fatal("Stage lookup failed")
	}
	if !p.Move("c", 0) {
		t.Fatal("Move reported missing stage")
	}
	if p.Stages[0].ID != "c" || p.Stages[1].ID != "a" {
		t.Fatalf("order after move: %s,%s,%s", p.Stages[0].ID, p.Stages[1].ID, p.Stages[2].ID)
	}
	// Out-of-range positions clamp.
	if !p.Move("c", 99) {
		t.Fatal("Move with large pos failed")
	}
	if p.Stages[2].ID != "c" {
		t.Fatal("large pos did not clamp to end")
	}
	if !p.Remove("a") || p.Remove("a") {
		t.Fatal("Remove bookkeeping wrong")
	}
	if len(p.Stages) != 2 {
		t.Fatalf("len = %d after remove", len(p.Stages))
	}
	if p.Move("missing", 0) || p.Stage("missing") != nil {
		t.Fatal("missing id found")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewConvolution("c", KernelBoxBlur(3))
	p := NewPipeline(s)
	snap := p.Snapshot()
	s.Kernel.Weights[0] = 77
	s.Active = false
	if snap[0].Kernel.Weights[0] == 77 {
		t.Fatal("snapshot shares kernel weights")
	}
	if !snap[0].Active {
		t.Fatal("snapshot shares stage fields")
	}
	var nilP *Pipeline
	if nilP.Snapshot() != nil {
		t.Fatal("nil pipeline snapshot not nil")
	}
}

func TestControlsWriteThrough(t *testing.T) {
	s := NewMorphology("m", MorphErode, 2)
	ctls := s.Controls()
	if len(ctls) != 2 {
		t.Fatalf("len(Controls) = %d", len(ctls))
	}
	opCtl, radCtl := ctls[0], ctls[1]
	if name, _ := opCtl.Describe(); name != "Operator" {
		t.Fatalf("control 0 = %q", name)
	}
	if err := opCtl.ChangeValue(MorphDilate); err != nil {
		t.Fatalf("ChangeValue: %v", err)
	}
	if s.Op != MorphDilate {
		t.Fatal("operator did not write through")
	}
	if err := radCtl.ChangeValue(40); err == nil {
		t.Fatal("radius 40 accepted")
	}
	if s.Radius != 2 {
		t.Fatal("rejected change mutated stage")
	}
	if err := radCtl.ChangeValue(5); err != nil {
		t.Fatalf("ChangeValue: %v", err)
	}
	if s.Radius != 5 || radCtl.ActualValue().(int) != 5 {
		t.Fatal("radius did not write through")
	}
	if err := radCtl.ChangeValue("five"); err == nil {
		t.Fatal("wrong type accepted")
	}
}

func TestControlCurve(t *testing.T) {
	var got []CurvePoint
	cc := &ControlCurve{
		Name:     "Tone",
		Points:   []CurvePoint{{X: 0, Y: 0}, {X: 1, Y: 1}},
		OnChange: func(pts []CurvePoint) error { got = pts; return nil },
	}
	next := []CurvePoint{{X: 0, Y: 0}, {X: 0.5, Y: 0.8}, {X: 1, Y: 1}}
	if err := cc.ChangeValue(next); err != nil {
		t.Fatalf("ChangeValue: %v", err)
	}
	if len(got) != 3 || len(cc.ActualValue().([]CurvePoint)) != 3 {
		t.Fatal("curve points not updated")
	}
	if err := cc.ChangeValue(42); err == nil {
		t.Fatal("non-slice accepted")
	}
}

func TestStageTypeStrings(t *testing.T) {
	for st, want := range map[StageType]string{
		StageConvolution:   "convolution",
		StageMotionHeatmap: "motion",
	} {
		if st.String() != want {
			t.Fatalf("String() = %q, want %q", st.String(), want)
		}
	}
}
