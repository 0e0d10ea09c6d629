// Package corelib builds the core shader library: scalar, vector, matrix and
// image types with the resolvers that lower their operators, constructors,
// swizzles and intrinsics.
//
// A Core is created once and shared. Its IR library is marked translated so
// it can be used as a read-only dependency by any number of translations.
package corelib

import (
	"fmt"

	"github.com/gogpu/fragc/config"
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

// Core holds the core library's host symbols and IR.
type Core struct {
	Settings *config.Settings
	Syntax   *syntax.Library
	Library  *ir.Library

	Void, Bool, Int, Real     *syntax.BoundType
	Real2, Real3, Real4       *syntax.BoundType
	Int2, Int3, Int4          *syntax.BoundType
	Bool2, Bool3, Bool4       *syntax.BoundType
	Real2x2, Real3x3, Real4x4 *syntax.BoundType

	Image2d, Sampler, SampledImage2d *syntax.BoundType

	// Math holds static intrinsic functions; Shader holds stage intrinsics.
	Math   *syntax.BoundType
	Shader *syntax.BoundType

	Dot, Transpose   *syntax.Function
	Ddx, Ddy, Fwidth *syntax.Function
	Discard          *syntax.Function
	Sample           *syntax.Function
	ControlBarrier   *syntax.Function

	vectors map[*syntax.BoundType]vectorInfo
}

type vectorInfo struct {
	elem  *syntax.BoundType
	count int
}

// New builds the core library.
func New(settings *config.Settings) *Core {
	if settings == nil {
		settings = config.Default()
	}
	c := &Core{
		Settings: settings,
		Syntax:   syntax.NewLibrary("Core"),
		vectors:  make(map[*syntax.BoundType]vectorInfo),
	}
	c.Library = ir.NewLibrary("Core", c.Syntax, nil)

	c.declareTypes()
	c.registerConstructors()
	c.registerOperators()
	c.registerCasts()
	c.registerSwizzles()
	c.registerIntrinsics()
	c.registerTemplates()

	c.Library.Translated = true
	return c
}

// Module returns a new module whose only library is the core library.
func (c *Core) Module() *ir.Module {
	return ir.NewModule(c.Library)
}

// Vector returns the vector type of n elements of scalar elem, or elem
// itself for n == 1.
func (c *Core) Vector(elem *syntax.BoundType, n int) *syntax.BoundType {
	if n == 1 {
		return elem
	}
	for v, info := range c.vectors {
		if info.elem == elem && info.count == n {
			return v
		}
	}
	panic(fmt.Sprintf("corelib: no %d-component vector of %s", n, elem))
}

// IsNumeric reports whether t is a scalar or vector of Int or Real.
func (c *Core) IsNumeric(t *syntax.BoundType) bool {
	elem, _ := c.components(t)
	return elem == c.Int || elem == c.Real
}

// components returns the scalar element and component count of a scalar or
// vector type, or (nil, 0).
func (c *Core) components(t *syntax.BoundType) (*syntax.BoundType, int) {
	switch t {
	case c.Int, c.Real, c.Bool:
		return t, 1
	}
	if info, ok := c.vectors[t]; ok {
		return info.elem, info.count
	}
	return nil, 0
}

func (c *Core) declareTypes() {
	lib := c.Library
	nonCopyable := syntax.NewAttribute(c.Settings.Names.NonCopyableAttribute)

	c.Void = c.Syntax.NewType("Void")
	c.Bool = c.Syntax.NewType("Bool")
	c.Int = c.Syntax.NewType("Int")
	c.Real = c.Syntax.NewType("Real")

	lib.NewType("Void", ir.BaseVoid, c.Void)
	boolT := lib.NewType("Bool", ir.BaseBool, c.Bool)
	intT := lib.NewType("Int", ir.BaseInt, c.Int)
	intT.Params = []ir.Node{lib.Literal(uint32(32)), lib.Literal(uint32(1))}
	realT := lib.NewType("Real", ir.BaseFloat, c.Real)
	realT.Params = []ir.Node{lib.Literal(uint32(32))}

	vector := func(name string, elem *syntax.BoundType, elemT *ir.Type, n int) *syntax.BoundType {
		sym := c.Syntax.NewType(name)
		t := lib.NewType(name, ir.BaseVector, sym)
		t.Component = elemT
		t.Components = n
		c.vectors[sym] = vectorInfo{elem: elem, count: n}
		lib.AddTypeDependent(elemT, t)
		return sym
	}
	c.Real2 = vector("Real2", c.Real, realT, 2)
	c.Real3 = vector("Real3", c.Real, realT, 3)
	c.Real4 = vector("Real4", c.Real, realT, 4)
	c.Int2 = vector("Int2", c.Int, intT, 2)
	c.Int3 = vector("Int3", c.Int, intT, 3)
	c.Int4 = vector("Int4", c.Int, intT, 4)
	c.Bool2 = vector("Bool2", c.Bool, boolT, 2)
	c.Bool3 = vector("Bool3", c.Bool, boolT, 3)
	c.Bool4 = vector("Bool4", c.Bool, boolT, 4)

	matrix := func(name string, column *syntax.BoundType, n int) *syntax.BoundType {
		sym := c.Syntax.NewType(name)
		colT := lib.FindType(column)
		t := lib.NewType(name, ir.BaseMatrix, sym)
		t.Component = colT
		t.Components = n
		lib.AddTypeDependent(colT, t)
		return sym
	}
	c.Real2x2 = matrix("Real2x2", c.Real2, 2)
	c.Real3x3 = matrix("Real3x3", c.Real3, 3)
	c.Real4x4 = matrix("Real4x4", c.Real4, 4)

	c.Sampler = c.Syntax.NewType("Sampler", nonCopyable)
	lib.NewType("Sampler", ir.BaseSampler, c.Sampler)

	c.Image2d = c.Syntax.NewType("Image2d", nonCopyable)
	image := lib.NewType("Image2d", ir.BaseImage, c.Image2d)
	// Sampled type, Dim 2D, Depth, Arrayed, MS, Sampled, Format Unknown.
	image.Params = []ir.Node{
		realT,
		lib.Literal(uint32(1)), lib.Literal(uint32(0)), lib.Literal(uint32(0)),
		lib.Literal(uint32(0)), lib.Literal(uint32(1)), lib.Literal(uint32(0)),
	}
	lib.AddTypeDependent(realT, image)

	c.SampledImage2d = c.Syntax.NewType("SampledImage2d", nonCopyable)
	sampled := lib.NewType("SampledImage2d", ir.BaseSampledImage, c.SampledImage2d)
	sampled.Params = []ir.Node{image}
	lib.AddTypeDependent(image, sampled)

	c.Math = c.Syntax.NewType("Math")
	c.Shader = c.Syntax.NewType("Shader")
}

// irType returns the core IR type of sym.
func (c *Core) irType(sym *syntax.BoundType) *ir.Type {
	t := c.Library.FindType(sym)
	if t == nil {
		panic(fmt.Sprintf("corelib: %s has no IR type", sym))
	}
	return t
}
