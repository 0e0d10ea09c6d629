// Package config holds the names and switches the translator is driven by.
//
// Settings are plain data so that hosts can rename attributes without code
// changes. They round-trip through TOML; the derived attribute rule tables
// are rebuilt by Finalize and are never serialized.
package config

import (
	"io"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/gogpu/fragc/syntax"
)

// Settings is the full translator configuration.
type Settings struct {
	Names  NameSettings  `toml:"names"`
	Errors ErrorSettings `toml:"errors"`

	TypeAttributes     map[string]*AttributeRule `toml:"-"`
	FunctionAttributes map[string]*AttributeRule `toml:"-"`
	FieldAttributes    map[string]*AttributeRule `toml:"-"`
}

// NameSettings names every attribute, function and template the translator
// recognizes.
type NameSettings struct {
	VertexAttribute   string `toml:"vertex"`
	PixelAttribute    string `toml:"pixel"`
	GeometryAttribute string `toml:"geometry"`
	ComputeAttribute  string `toml:"compute"`

	// RequiresPrefix is prepended to a stage name to form the attribute
	// restricting a symbol to that stage, e.g. "RequiresPixel".
	RequiresPrefix string `toml:"requires-prefix"`

	EntryPointAttribute             string `toml:"entry-point"`
	MainFunctionName                string `toml:"main-function"`
	StaticAttribute                 string `toml:"static"`
	SpecializationConstantAttribute string `toml:"specialization-constant"`
	StorageClassAttribute           string `toml:"storage-class"`
	NonCopyableAttribute            string `toml:"non-copyable"`

	InputAttributes  []string `toml:"inputs"`
	OutputAttributes []string `toml:"outputs"`

	// Implied lists the sub-attributes a family attribute stands for,
	// e.g. "Input" = ["FragmentInput", "StageInput"].
	Implied map[string][]string `toml:"implied,omitempty"`

	MaxVerticesParam string `toml:"max-vertices"`
	LocalSizeXParam  string `toml:"local-size-x"`
	LocalSizeYParam  string `toml:"local-size-y"`
	LocalSizeZParam  string `toml:"local-size-z"`

	FixedArrayName   string `toml:"fixed-array"`
	RuntimeArrayName string `toml:"runtime-array"`

	InputStreamNames  []string `toml:"input-streams"`
	OutputStreamNames []string `toml:"output-streams"`

	DefaultConstructorName string `toml:"default-constructor"`
	PreConstructorName     string `toml:"pre-constructor"`
	DummyMemberName        string `toml:"dummy-member"`
}

// ErrorSettings toggles optional diagnostics.
type ErrorSettings struct {
	ErrorOnNoMainFunction bool `toml:"error-on-no-main"`
}

// Compute local size limits per axis.
const (
	MaxLocalSizeX = 128
	MaxLocalSizeY = 128
	MaxLocalSizeZ = 64
)

// Default returns finalized default settings.
func Default() *Settings {
	s := &Settings{
		Names: NameSettings{
			VertexAttribute:                 "Vertex",
			PixelAttribute:                  "Pixel",
			GeometryAttribute:               "Geometry",
			ComputeAttribute:                "Compute",
			RequiresPrefix:                  "Requires",
			EntryPointAttribute:             "EntryPoint",
			MainFunctionName:                "Main",
			StaticAttribute:                 "Static",
			SpecializationConstantAttribute: "SpecializationConstant",
			StorageClassAttribute:           "StorageClass",
			NonCopyableAttribute:            "NonCopyable",
			InputAttributes:                 []string{"Input", "FragmentInput", "StageInput", "HardwareBuiltInInput", "AppBuiltInInput", "PropertyInput"},
			OutputAttributes:                []string{"Output", "FragmentOutput", "StageOutput", "HardwareBuiltInOutput"},
			Implied: map[string][]string{
				"Input":  {"FragmentInput", "StageInput", "AppBuiltInInput", "PropertyInput"},
				"Output": {"FragmentOutput", "StageOutput"},
			},
			MaxVerticesParam:       "maxVertices",
			LocalSizeXParam:        "localSizeX",
			LocalSizeYParam:        "localSizeY",
			LocalSizeZParam:        "localSizeZ",
			FixedArrayName:         "FixedArray",
			RuntimeArrayName:       "RuntimeArray",
			InputStreamNames:       []string{"PointInput", "LineInput", "TriangleInput"},
			OutputStreamNames:      []string{"PointOutput", "LineOutput", "TriangleOutput"},
			DefaultConstructorName: "DefaultConstructor",
			PreConstructorName:     "PreConstructor",
			DummyMemberName:        "Dummy",
		},
		Errors: ErrorSettings{ErrorOnNoMainFunction: false},
	}
	s.Finalize()
	return s
}

// Parse decodes TOML settings and finalizes them. Names missing from the
// document keep their default values.
func Parse(data []byte) (*Settings, error) {
	s := &Settings{}
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "decoding settings")
	}
	s.Names.fillDefaults(&Default().Names)
	if err := s.validate(); err != nil {
		return nil, err
	}
	s.Finalize()
	return s, nil
}

func (n *NameSettings) fillDefaults(d *NameSettings) {
	for _, p := range []struct{ v *string; d string }{
		{&n.VertexAttribute, d.VertexAttribute},
		{&n.PixelAttribute, d.PixelAttribute},
		{&n.GeometryAttribute, d.GeometryAttribute},
		{&n.ComputeAttribute, d.ComputeAttribute},
		{&n.RequiresPrefix, d.RequiresPrefix},
		{&n.EntryPointAttribute, d.EntryPointAttribute},
		{&n.MainFunctionName, d.MainFunctionName},
		{&n.StaticAttribute, d.StaticAttribute},
		{&n.SpecializationConstantAttribute, d.SpecializationConstantAttribute},
		{&n.StorageClassAttribute, d.StorageClassAttribute},
		{&n.NonCopyableAttribute, d.NonCopyableAttribute},
		{&n.MaxVerticesParam, d.MaxVerticesParam},
		{&n.LocalSizeXParam, d.LocalSizeXParam},
		{&n.LocalSizeYParam, d.LocalSizeYParam},
		{&n.LocalSizeZParam, d.LocalSizeZParam},
		{&n.FixedArrayName, d.FixedArrayName},
		{&n.RuntimeArrayName, d.RuntimeArrayName},
		{&n.DefaultConstructorName, d.DefaultConstructorName},
		{&n.PreConstructorName, d.PreConstructorName},
		{&n.DummyMemberName, d.DummyMemberName},
	} {
		if *p.v == "" {
			*p.v = p.d
		}
	}
	if n.InputAttributes == nil {
		n.InputAttributes = d.InputAttributes
	}
	if n.OutputAttributes == nil {
		n.OutputAttributes = d.OutputAttributes
	}
	if n.Implied == nil {
		n.Implied = d.Implied
	}
	if n.InputStreamNames == nil {
		n.InputStreamNames = d.InputStreamNames
	}
	if n.OutputStreamNames == nil {
		n.OutputStreamNames = d.OutputStreamNames
	}
}

// Load reads settings from a TOML file.
func Load(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening settings %s", path)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading settings %s", path)
	}
	s, err := Parse(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", path)
	}
	return s, nil
}

// Save writes s to path as TOML.
func (s *Settings) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating settings %s", path)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return errors.Wrapf(err, "encoding settings %s", path)
	}
	return nil
}

// Marshal encodes s as TOML.
func (s *Settings) Marshal() ([]byte, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "encoding settings")
	}
	return data, nil
}

func (s *Settings) validate() error {
	seen := make(map[string]bool, 4)
	for _, name := range s.StageAttributes() {
		if seen[name] {
			return errors.Errorf("stage attribute %q is used for more than one stage", name)
		}
		seen[name] = true
	}
	if s.Names.RequiresPrefix == "" {
		return errors.New("names.requires-prefix must not be empty")
	}
	return nil
}

// StageAttributes returns the fragment-type attribute names in stage order:
// vertex, pixel, geometry, compute.
func (s *Settings) StageAttributes() []string {
	n := &s.Names
	return []string{n.VertexAttribute, n.PixelAttribute, n.GeometryAttribute, n.ComputeAttribute}
}

// RequiresAttribute returns the attribute name restricting a symbol to the
// stage whose fragment attribute is stage.
func (s *Settings) RequiresAttribute(stage string) string {
	return s.Names.RequiresPrefix + stage
}

// IsInputStream reports whether name is a geometry input stream template.
func (s *Settings) IsInputStream(name string) bool {
	return contains(s.Names.InputStreamNames, name)
}

// IsOutputStream reports whether name is a geometry output stream template.
func (s *Settings) IsOutputStream(name string) bool {
	return contains(s.Names.OutputStreamNames, name)
}

// IsInputOutput reports whether name is one of the input/output attributes.
func (s *Settings) IsInputOutput(name string) bool {
	return contains(s.Names.InputAttributes, name) || contains(s.Names.OutputAttributes, name)
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

// ParamRule requires an attribute to carry exactly one parameter.
type ParamRule struct {
	Name string // empty accepts an unnamed parameter
	Kind syntax.ParamKind
}
