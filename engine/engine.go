package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/sirupsen/logrus"
	"github.com/soypat/fxpipe"
)

// Engine is the GPU pipeline renderer. It owns four frame-sized storage
// buffers: the uploaded source frame, two ping-pong intermediates and the
// previous-raw-frame snapshot the motion stage reads. Buffers are
// reallocated only when dimensions change. Stage dispatch is strictly
// ordered on the device queue, so a stage's write always completes before
// the next stage's read without explicit synchronization here.
type Engine struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	log    *logrus.Logger
	cache  *ProgramCache

	convolvePL *wgpu.ComputePipeline
	morphPL    *wgpu.ComputePipeline
	motionPL   *wgpu.ComputePipeline

	width, height int
	source        *wgpu.Buffer
	ping          *wgpu.Buffer
	pong          *wgpu.Buffer
	prevRaw       *wgpu.Buffer
	uniforms      *wgpu.Buffer
	kernelBuf     *wgpu.Buffer
	kernelCap     int // kernel buffer capacity in weights

	final       *wgpu.Buffer // output of the last tick, readback target
	prevValid   bool
	frameLoaded bool
	start       time.Time
}

var _ Renderer = (*Engine)(nil)

// New builds an engine on an existing device and queue. All built-in stage
// shaders and the identity program are compiled up front; any failure there
// means the device is unusable and aborts construction with a
// *ResourceError. A nil logger uses the logrus standard logger.
func New(device *wgpu.Device, queue *wgpu.Queue, logger *logrus.Logger) (*Engine, error) {
	if device == nil || queue == nil {
		return nil, &ResourceError{Op: "construct", Err: errors.New("nil device or queue")}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	e := &Engine{device: device, queue: queue, log: logger, start: time.Now()}
	var err error
	if e.convolvePL, err = e.compileCompute(convolveShaderWGSL); err != nil {
		return nil, &ResourceError{Op: "compile convolution shader", Err: err}
	}
	if e.morphPL, err = e.compileCompute(morphShaderWGSL); err != nil {
		return nil, &ResourceError{Op: "compile morphology shader", Err: err}
	}
	if e.motionPL, err = e.compileCompute(motionShaderWGSL); err != nil {
		return nil, &ResourceError{Op: "compile motion shader", Err: err}
	}
	identity, err := e.compileCompute(PointShader(identityTransform))
	if err != nil {
		return nil, &ResourceError{Op: "compile identity program", Err: err}
	}
	e.cache = NewProgramCache(func(transform string) (*wgpu.ComputePipeline, error) {
		return e.compileCompute(PointShader(transform))
	}, identity, DefaultCacheCapacity, func(pl *wgpu.ComputePipeline) { pl.Release() })
	return e, nil
}

// Cache exposes the engine's program cache.
func (e *Engine) Cache() *ProgramCache { return e.cache }

// Dims returns the current buffer dimensions.
func (e *Engine) Dims() (width, height int) { return e.width, e.height }

func (e *Engine) compileCompute(code string) (*wgpu.ComputePipeline, error) {
	module, err := e.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("shader module: %w", err)
	}
	defer module.Release()
	pipeline, err := e.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("compute pipeline: %w", err)
	}
	return pipeline, nil
}

// Resize implements [Renderer]. It reallocates all four frame buffers and
// must precede the first LoadFrame/Execute at new dimensions.
func (e *Engine) Resize(width, height int) error {
	if width == e.width && height == e.height {
		return nil
	}
	if width <= 0 || height <= 0 {
		return &ResourceError{Op: "resize", Err: fmt.Errorf("dimensions %dx%d not positive", width, height)}
	}
	e.releaseFrameBuffers()
	size := uint64(width * height * 4)
	var err error
	mk := func(label string) *wgpu.Buffer {
		if err != nil {
			return nil
		}
		var buf *wgpu.Buffer
		buf, err = e.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: label,
			Size:  size,
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
		})
		return buf
	}
	e.source = mk("source")
	e.ping = mk("ping")
	e.pong = mk("pong")
	e.prevRaw = mk("prev-raw")
	if err == nil && e.uniforms == nil {
		e.uniforms, err = e.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "stage-uniforms",
			Size:  32,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
	}
	if err != nil {
		e.releaseFrameBuffers()
		return &ResourceError{Op: "resize", Err: err}
	}
	e.width, e.height = width, height
	e.prevValid = false
	e.frameLoaded = false
	e.final = nil
	e.log.WithFields(logrus.Fields{"width": width, "height": height}).Debug("engine buffers reallocated")
	return nil
}

// LoadFrame implements [Renderer]. It uploads f into the source buffer and
// must be called at least once after Resize and once per tick for live
// sources; static sources may Execute repeatedly on one loaded frame.
func (e *Engine) LoadFrame(f *fxpipe.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.Width != e.width || f.Height != e.height {
		return fmt.Errorf("frame is %dx%d, engine sized %dx%d: resize first", f.Width, f.Height, e.width, e.height)
	}
	e.queue.WriteBuffer(e.source, 0, f.Pix)
	e.frameLoaded = true
	if e.final == nil {
		e.final = e.source
	}
	return nil
}

// Execute implements [Renderer]. The stage list is snapshotted up front;
// each active stage reads the previous stage's output (the source frame for
// the first) and writes the alternate ping-pong buffer, which then becomes
// current. Inactive and invalid stages perform no draw and no swap, so
// disabling a stage is observably identical to removing it. After the loop
// the raw source is snapshotted into the previous-raw-frame buffer for the
// next tick's motion stage, giving that stage exactly one tick of lag; on
// the first tick after Resize the snapshot happens before the loop so a
// motion stage compares the frame against itself.
func (e *Engine) Execute(p *fxpipe.Pipeline) ([]StageIssue, error) {
	if !e.frameLoaded {
		return nil, errors.New("no frame loaded")
	}
	snap := p.Snapshot()
	if !e.prevValid {
		e.copyBuffer(e.source, e.prevRaw)
		e.prevValid = true
	}
	input := e.source
	usePing := true
	var issues []StageIssue
	for i := range snap {
		st := &snap[i]
		if !st.Active {
			continue
		}
		if err := st.Validate(); err != nil {
			issues = append(issues, StageIssue{StageID: st.ID, Err: err})
			e.log.WithFields(logrus.Fields{"stage": st.ID, "type": st.Type.String()}).WithError(err).Warn("stage skipped")
			continue
		}
		out := e.pong
		if usePing {
			out = e.ping
		}
		var err error
		switch st.Type {
		case fxpipe.StageConvolution:
			err = e.dispatchConvolve(input, out, st)
		case fxpipe.StageMorphology:
			err = e.dispatchMorph(input, out, st)
		case fxpipe.StageMotionHeatmap:
			err = e.dispatchMotion(input, out, st)
		default:
			err = e.dispatchPoint(input, out, st, &issues)
		}
		if err != nil {
			issues = append(issues, StageIssue{StageID: st.ID, Err: err})
			e.log.WithFields(logrus.Fields{"stage": st.ID, "type": st.Type.String()}).WithError(err).Error("stage dispatch failed")
			continue
		}
		input = out
		usePing = !usePing
	}
	// Snapshot what will be "last frame" for the next tick's motion stage.
	e.copyBuffer(e.source, e.prevRaw)
	e.final = input
	return issues, nil
}

func (e *Engine) writeUniforms(vals [8]float32) {
	e.queue.WriteBuffer(e.uniforms, 0, wgpu.ToBytes(vals[:]))
}

func (e *Engine) dispatchConvolve(input, out *wgpu.Buffer, st *fxpipe.Stage) error {
	k := st.Kernel
	if err := e.ensureKernelBuffer(len(k.Weights)); err != nil {
		return err
	}
	e.queue.WriteBuffer(e.kernelBuf, 0, wgpu.ToBytes(k.Weights))
	e.writeUniforms([8]float32{
		float32(e.width), float32(e.height),
		float32(k.Width), float32(k.Height),
		k.EffectiveFactor(), k.Bias,
	})
	return e.dispatch(e.convolvePL, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: e.uniforms, Size: wgpu.WholeSize},
		{Binding: 1, Buffer: input, Size: wgpu.WholeSize},
		{Binding: 2, Buffer: out, Size: wgpu.WholeSize},
		{Binding: 3, Buffer: e.kernelBuf, Size: wgpu.WholeSize},
	})
}

func (e *Engine) dispatchMorph(input, out *wgpu.Buffer, st *fxpipe.Stage) error {
	var op float32
	if st.Op == fxpipe.MorphDilate {
		op = 1
	}
	e.writeUniforms([8]float32{
		float32(e.width), float32(e.height),
		float32(st.Radius), op,
	})
	return e.dispatch(e.morphPL, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: e.uniforms, Size: wgpu.WholeSize},
		{Binding: 1, Buffer: input, Size: wgpu.WholeSize},
		{Binding: 2, Buffer: out, Size: wgpu.WholeSize},
	})
}

func (e *Engine) dispatchMotion(input, out *wgpu.Buffer, st *fxpipe.Stage) error {
	e.writeUniforms([8]float32{
		float32(e.width), float32(e.height),
		st.Threshold,
	})
	return e.dispatch(e.motionPL, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: e.uniforms, Size: wgpu.WholeSize},
		{Binding: 1, Buffer: input, Size: wgpu.WholeSize},
		{Binding: 2, Buffer: e.prevRaw, Size: wgpu.WholeSize},
		{Binding: 3, Buffer: out, Size: wgpu.WholeSize},
	})
}

// dispatchPoint handles the per-pixel template stages: bit-plane slicing,
// color-space decomposition and custom transforms. All three go through the
// program cache; a failed custom program degrades to identity and is
// reported in issues without failing the dispatch.
func (e *Engine) dispatchPoint(input, out *wgpu.Buffer, st *fxpipe.Stage, issues *[]StageIssue) error {
	var transform string
	params := [8]float32{float32(e.width), float32(e.height), float32(time.Since(e.start).Seconds())}
	switch st.Type {
	case fxpipe.StageBitPlane:
		transform = bitplaneTransform
		params[3] = float32(st.Bit)
	case fxpipe.StageDecompose:
		transform = decomposeTransform
		params[3] = float32(st.Channel)
	case fxpipe.StageCustom:
		transform = st.Program
		params[3], params[4] = st.P0, st.P1
	default:
		return fmt.Errorf("stage type %v has no point transform", st.Type)
	}
	pl, cerr := e.cache.Get(transform)
	if cerr != nil {
		*issues = append(*issues, StageIssue{StageID: st.ID, Err: cerr})
		e.log.WithFields(logrus.Fields{"stage": st.ID}).WithError(cerr).Warn("custom program degraded to identity")
	}
	e.writeUniforms(params)
	return e.dispatch(pl, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: e.uniforms, Size: wgpu.WholeSize},
		{Binding: 1, Buffer: input, Size: wgpu.WholeSize},
		{Binding: 2, Buffer: out, Size: wgpu.WholeSize},
	})
}

func (e *Engine) ensureKernelBuffer(weights int) error {
	if e.kernelBuf != nil && weights <= e.kernelCap {
		return nil
	}
	if e.kernelBuf != nil {
		e.kernelBuf.Release()
		e.kernelBuf = nil
	}
	capacity := weights
	if capacity < 64 {
		capacity = 64
	}
	buf, err := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "kernel-weights",
		Size:  uint64(capacity * 4),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("kernel buffer: %w", err)
	}
	e.kernelBuf = buf
	e.kernelCap = capacity
	return nil
}

func (e *Engine) dispatch(pl *wgpu.ComputePipeline, entries []wgpu.BindGroupEntry) error {
	bindGroup, err := e.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  pl.GetBindGroupLayout(0),
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("bind group: %w", err)
	}
	defer bindGroup.Release()

	encoder, err := e.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pl)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(uint32((e.width+7)/8), uint32((e.height+7)/8), 1)
	pass.End()
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish: %w", err)
	}
	e.queue.Submit(cmd)
	return nil
}

func (e *Engine) copyBuffer(src, dst *wgpu.Buffer) {
	encoder, err := e.device.CreateCommandEncoder(nil)
	if err != nil {
		e.log.WithError(err).Error("frame copy encoder")
		return
	}
	defer encoder.Release()
	encoder.CopyBufferToBuffer(src, 0, dst, 0, uint64(e.width*e.height*4))
	cmd, err := encoder.Finish(nil)
	if err != nil {
		e.log.WithError(err).Error("frame copy finish")
		return
	}
	e.queue.Submit(cmd)
}

// Readback implements [Renderer]. Storage buffers are addressed row-major
// from the top-left, so the returned array is already in the top-left
// row order analytics consumers expect.
func (e *Engine) Readback() ([]byte, error) {
	if e.final == nil {
		return nil, &ReadbackError{Err: errors.New("no frame rendered")}
	}
	size := uint64(e.width * e.height * 4)
	staging, err := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "readback-staging",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, &ReadbackError{Err: fmt.Errorf("staging buffer: %w", err)}
	}
	defer staging.Release()

	encoder, err := e.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, &ReadbackError{Err: err}
	}
	encoder.CopyBufferToBuffer(e.final, 0, staging, 0, size)
	cmd, err := encoder.Finish(nil)
	encoder.Release()
	if err != nil {
		return nil, &ReadbackError{Err: err}
	}
	e.queue.Submit(cmd)
	e.device.Poll(true, nil)

	done := make(chan error, 1)
	staging.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			done <- fmt.Errorf("map failed: %v", status)
			return
		}
		done <- nil
	})
	e.device.Poll(true, nil)
	if err := <-done; err != nil {
		return nil, &ReadbackError{Err: err}
	}
	out := make([]byte, size)
	copy(out, staging.GetMappedRange(0, uint(size)))
	staging.Unmap()
	return out, nil
}

func (e *Engine) releaseFrameBuffers() {
	for _, buf := range []**wgpu.Buffer{&e.source, &e.ping, &e.pong, &e.prevRaw} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	e.final = nil
}

// Cleanup implements [Renderer], releasing every GPU resource the engine
// owns including all cached programs.
func (e *Engine) Cleanup() {
	e.releaseFrameBuffers()
	if e.uniforms != nil {
		e.uniforms.Release()
		e.uniforms = nil
	}
	if e.kernelBuf != nil {
		e.kernelBuf.Release()
		e.kernelBuf = nil
	}
	for _, pl := range []**wgpu.ComputePipeline{&e.convolvePL, &e.morphPL, &e.motionPL} {
		if *pl != nil {
			(*pl).Release()
			*pl = nil
		}
	}
	if e.cache != nil {
		e.cache.Cleanup()
	}
	e.width, e.height = 0, 0
	e.prevValid, e.frameLoaded = false, false
}
