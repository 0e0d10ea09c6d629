package corelib

import (
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// Scope and memory semantics operands of the workgroup barrier.
const (
	scopeWorkgroup           = 2
	semanticsAcquireRelease  = 0x8
	semanticsWorkgroupMemory = 0x100
	barrierSemantics         = semanticsAcquireRelease | semanticsWorkgroupMemory
)

func (c *Core) registerIntrinsics() {
	math := c.Library.TypeResolvers(c.Math)
	shader := c.Library.TypeResolvers(c.Shader)
	image := c.Library.TypeResolvers(c.Image2d)

	c.Dot = c.Math.AddFunction("Dot", c.Real, true,
		syntax.Param{Name: "a", Type: c.Real3}, syntax.Param{Name: "b", Type: c.Real3})
	math.RegisterFunction(c.Dot, intrinsic(ir.OpDot))

	c.Transpose = c.Math.AddFunction("Transpose", c.Real4x4, true,
		syntax.Param{Name: "m", Type: c.Real4x4})
	math.RegisterFunction(c.Transpose, intrinsic(ir.OpTranspose))

	// Derivatives only exist in pixel shaders.
	for _, d := range []struct {
		fn   **syntax.Function
		name string
		code ir.OpCode
	}{
		{&c.Ddx, "Ddx", ir.OpDPdx},
		{&c.Ddy, "Ddy", ir.OpDPdy},
		{&c.Fwidth, "Fwidth", ir.OpFwidth},
	} {
		*d.fn = c.Math.AddFunction(d.name, c.Real, true, syntax.Param{Name: "value", Type: c.Real})
		math.RegisterFunction(*d.fn, intrinsic(d.code))
		c.Library.RequireStage(*d.fn, ir.StagePixel)
	}

	c.Discard = c.Shader.AddFunction("Discard", nil, true)
	shader.RegisterFunction(c.Discard, func(t ir.Translator, e *syntax.CallExpr) *ir.Op {
		t.Emit(ir.OpKill, nil)
		return nil
	})
	c.Library.RequireStage(c.Discard, ir.StagePixel)

	c.ControlBarrier = c.Shader.AddFunction("ControlBarrier", nil, true)
	shader.RegisterFunction(c.ControlBarrier, func(t ir.Translator, e *syntax.CallExpr) *ir.Op {
		t.Emit(ir.OpControlBarrier, nil,
			t.IntConstant(scopeWorkgroup), t.IntConstant(scopeWorkgroup), t.IntConstant(barrierSemantics))
		return nil
	})
	c.Library.RequireStage(c.ControlBarrier, ir.StageCompute)

	c.Sample = c.Image2d.AddFunction("Sample", c.Real4, false,
		syntax.Param{Name: "sampler", Type: c.Sampler}, syntax.Param{Name: "uv", Type: c.Real2})
	image.RegisterFunction(c.Sample, c.sample)
	c.Library.RequireStage(c.Sample, ir.StagePixel)
}

// intrinsic emits code over the loaded arguments.
func intrinsic(code ir.OpCode) ir.FunctionResolver {
	return func(t ir.Translator, e *syntax.CallExpr) *ir.Op {
		args := make([]ir.Node, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, t.ValueOf(t.Walk(a)))
		}
		return t.Emit(code, t.TypeOf(e.Type, e.Span), args...)
	}
}

// sample combines the receiver image with the sampler argument and does an
// implicit-LOD sample.
func (c *Core) sample(t ir.Translator, e *syntax.CallExpr) *ir.Op {
	callee, ok := e.Callee.(*syntax.MemberAccessExpr)
	if !ok || len(e.Args) != 2 {
		t.Errorf(e.Span, "Failed to translate function call: 'Sample'")
		return t.Dummy(t.TypeOf(e.Type, e.Span))
	}
	img := t.ValueOf(t.Walk(callee.Left))
	sampler := t.ValueOf(t.Walk(e.Args[0]))
	uv := t.ValueOf(t.Walk(e.Args[1]))
	combined := t.Emit(ir.OpSampledImage, c.irType(c.SampledImage2d), img, sampler)
	return t.Emit(ir.OpImageSampleImplicitLod, t.TypeOf(e.Type, e.Span), combined, uv)
}
