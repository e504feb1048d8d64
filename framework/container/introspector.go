package container

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-errors/errors"
)

// TypeIntrospector reports how a type is constructed. The container never
// inspects types itself; it asks the introspector it was configured with.
type TypeIntrospector interface {
	// Instantiable reports whether t can be constructed at all.
	Instantiable(t reflect.Type) bool

	// Constructor returns the parameter list and factory for t.
	Constructor(t reflect.Type) (*Constructor, error)
}

// Parameter describes one constructor parameter.
type Parameter struct {
	Name string

	// Type is the declared class type used for binding lookup. It is nil for
	// scalar parameters (numbers, strings, slices, maps), which can only be
	// satisfied by a constant constructor argument or a default.
	Type reflect.Type

	// Optional parameters have a Default.
	Optional bool
	Default  any
}

// Constructor builds instances of Type from positional arguments.
type Constructor struct {
	Type   reflect.Type
	Params []Parameter

	inTypes []reflect.Type
	build   func(args []reflect.Value) (any, error)
}

// New applies args positionally to the constructor parameters. Missing
// trailing arguments take the declared default of their parameter; an
// argument that does not fit its position is an error.
func (c *Constructor) New(args []any) (any, error) {
	if len(args) > len(c.Params) {
		return nil, errors.Errorf("too many arguments for %s: got %d, want %d", c.Type, len(args), len(c.Params))
	}

	values := make([]reflect.Value, len(c.Params))
	for i, param := range c.Params {
		if i >= len(args) {
			if !param.Optional {
				return nil, errors.Errorf("missing argument %d (%s) for %s", i, param.Name, c.Type)
			}
			value, err := coerce(param.Default, c.inTypes[i], true)
			if err != nil {
				return nil, errors.Errorf("default of parameter %s: %v", param.Name, err)
			}
			values[i] = value
			continue
		}

		value, err := coerce(args[i], c.inTypes[i], false)
		if err != nil {
			return nil, errors.Errorf("argument %d (%s) for %s: %v", i, param.Name, c.Type, err)
		}
		values[i] = value
	}

	return c.build(values)
}

// ── Catalog ───────────────────────────────────────────────────────────────────

// ParamSpec names a parameter of a registered constructor function.
type ParamSpec struct {
	name     string
	optional bool
	def      any
}

// Arg declares a required parameter.
func Arg(name string) ParamSpec {
	return ParamSpec{name: name}
}

// OptionalArg declares a parameter with a default value.
func OptionalArg(name string, def any) ParamSpec {
	return ParamSpec{name: name, optional: true, def: def}
}

// Catalog is the default TypeIntrospector.
//
// Go functions carry no parameter names, so constructor functions are
// registered together with their parameter specs:
//
//	catalog.Register(NewMailer, container.Arg("logger"), container.OptionalArg("timeout", 10))
//
// Structs (and pointers to structs) without a registered constructor are
// built from their exported fields. The field name, lower-cased on its
// first letter, is the parameter name unless an inject tag says otherwise:
//
//	type Service struct {
//	    Logger  Logger
//	    Retries int    `inject:"retries,optional"`
//	    cache   *Cache // unexported, ignored
//	    Debug   bool   `inject:"-"`
//	}
type Catalog struct {
	mu    sync.RWMutex
	ctors map[reflect.Type]*Constructor
}

// NewCatalog creates a catalog with no registered constructors.
func NewCatalog() *Catalog {
	return &Catalog{ctors: make(map[reflect.Type]*Constructor)}
}

// Register adds a constructor function. The function must return the
// constructed value, optionally followed by an error, and params must name
// every input parameter in order.
func (c *Catalog) Register(fn any, params ...ParamSpec) error {
	if fn == nil {
		return errors.New("invalid constructor: no func specified")
	}

	fnType := reflect.TypeOf(fn)
	fnValue := reflect.ValueOf(fn)
	if fnType.Kind() != reflect.Func {
		return errors.Errorf("invalid constructor: not a function: %s", fnType)
	}
	if fnType.IsVariadic() {
		return errors.Errorf("invalid constructor: variadic functions are not supported: %s", fnType)
	}

	outError := false
	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return errors.Errorf("invalid constructor: second return value must be an error: %s", fnType)
		}
		outError = true
	default:
		return errors.Errorf("invalid constructor: must return a value and an optional error: %s", fnType)
	}

	if len(params) != fnType.NumIn() {
		return errors.Errorf("invalid constructor: %s takes %d parameters, %d named", fnType, fnType.NumIn(), len(params))
	}

	ctor := &Constructor{
		Type:    fnType.Out(0),
		Params:  make([]Parameter, 0, len(params)),
		inTypes: make([]reflect.Type, 0, len(params)),
	}
	seen := make(map[string]bool, len(params))
	for index, spec := range params {
		if spec.name == "" {
			return errors.Errorf("invalid constructor: parameter %d of %s has no name", index, fnType)
		}
		if seen[spec.name] {
			return errors.Errorf("invalid constructor: duplicate parameter name %q in %s", spec.name, fnType)
		}
		seen[spec.name] = true

		inType := fnType.In(index)
		ctor.inTypes = append(ctor.inTypes, inType)
		ctor.Params = append(ctor.Params, Parameter{
			Name:     spec.name,
			Type:     declaredClassType(inType),
			Optional: spec.optional,
			Default:  spec.def,
		})
	}

	ctor.build = func(args []reflect.Value) (any, error) {
		results := fnValue.Call(args)
		if outError && !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}
		return results[0].Interface(), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctors[ctor.Type] = ctor
	return nil
}

// MustRegister is like Register but panics on an invalid constructor. It
// returns the catalog for chaining.
func (c *Catalog) MustRegister(fn any, params ...ParamSpec) *Catalog {
	if err := c.Register(fn, params...); err != nil {
		panic(err)
	}
	return c
}

// Instantiable implements TypeIntrospector.
func (c *Catalog) Instantiable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if c.registered(t) != nil {
		return true
	}
	return isStructType(t)
}

// Constructor implements TypeIntrospector.
func (c *Catalog) Constructor(t reflect.Type) (*Constructor, error) {
	if t == nil {
		return nil, errors.New("no type specified")
	}
	if ctor := c.registered(t); ctor != nil {
		return ctor, nil
	}
	if isStructType(t) {
		return structConstructor(t)
	}
	return nil, errors.Errorf("no constructor for %s (kind %s)", t, t.Kind())
}

func (c *Catalog) registered(t reflect.Type) *Constructor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ctors[t]
}

// structConstructor builds a constructor that assigns exported fields.
func structConstructor(t reflect.Type) (*Constructor, error) {
	structType := t
	if t.Kind() == reflect.Pointer {
		structType = t.Elem()
	}

	ctor := &Constructor{Type: t}
	var fieldIndexes []int
	seen := map[string]bool{}
	for index := 0; index < structType.NumField(); index++ {
		field := structType.Field(index)
		if !field.IsExported() {
			continue
		}

		name, optional, skip := parseInjectTag(field)
		if skip {
			continue
		}
		if seen[name] {
			return nil, errors.Errorf("duplicate parameter name %q in %s", name, t)
		}
		seen[name] = true

		fieldIndexes = append(fieldIndexes, index)
		ctor.inTypes = append(ctor.inTypes, field.Type)
		ctor.Params = append(ctor.Params, Parameter{
			Name:     name,
			Type:     declaredClassType(field.Type),
			Optional: optional,
		})
	}

	ctor.build = func(args []reflect.Value) (any, error) {
		instance := reflect.New(structType)
		for i, arg := range args {
			instance.Elem().Field(fieldIndexes[i]).Set(arg)
		}
		if t.Kind() == reflect.Pointer {
			return instance.Interface(), nil
		}
		return instance.Elem().Interface(), nil
	}
	return ctor, nil
}

func parseInjectTag(field reflect.StructField) (name string, optional, skip bool) {
	name = strings.ToLower(field.Name[:1]) + field.Name[1:]
	tag, ok := field.Tag.Lookup("inject")
	if !ok {
		return name, false, false
	}
	if tag == "-" {
		return "", false, true
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "optional" {
			optional = true
		}
	}
	return name, optional, false
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// declaredClassType returns t when parameters of that type are resolved
// through bindings, nil for scalar-like types.
func declaredClassType(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Struct, reflect.Func, reflect.Chan:
		return t
	default:
		return nil
	}
}

func isStructType(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// coerce turns v into a value usable for a parameter of type t. A nil v is
// the zero value when zeroOK is set (defaults) or t is nillable.
func coerce(v any, t reflect.Type, zeroOK bool) (reflect.Value, error) {
	if v == nil {
		if zeroOK || isNillable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", t)
	}

	value := reflect.ValueOf(v)
	if value.Type().AssignableTo(t) {
		return value, nil
	}
	if isNumeric(value.Type()) && isNumeric(t) {
		if !fitsNumber(value, t) {
			return reflect.Value{}, fmt.Errorf("%v (%s) does not fit in %s", v, value.Type(), t)
		}
		return value.Convert(t), nil
	}
	if sameScalarKind(value.Type(), t) {
		return value.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", value.Type(), t)
}

func isNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// sameScalarKind allows named bool and string types, never number to string.
func sameScalarKind(from, to reflect.Type) bool {
	switch from.Kind() {
	case reflect.Bool, reflect.String:
		return from.Kind() == to.Kind()
	default:
		return false
	}
}

// fitsNumber reports whether v converts to the numeric type t without
// changing its value: no sign wrap, no truncated fraction, no overflow.
func fitsNumber(v reflect.Value, t reflect.Type) bool {
	target := reflect.Zero(t)
	switch {
	case isSigned(v.Kind()):
		n := v.Int()
		switch {
		case isSigned(t.Kind()):
			return !target.OverflowInt(n)
		case isUnsigned(t.Kind()):
			return n >= 0 && !target.OverflowUint(uint64(n))
		default:
			return !target.OverflowFloat(float64(n)) && int64(float64(n)) == n
		}

	case isUnsigned(v.Kind()):
		u := v.Uint()
		switch {
		case isSigned(t.Kind()):
			return u <= math.MaxInt64 && !target.OverflowInt(int64(u))
		case isUnsigned(t.Kind()):
			return !target.OverflowUint(u)
		default:
			return !target.OverflowFloat(float64(u)) && uint64(float64(u)) == u
		}

	default:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
		}
		switch {
		case isSigned(t.Kind()):
			return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !target.OverflowInt(int64(f))
		case isUnsigned(t.Kind()):
			return f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 && !target.OverflowUint(uint64(f))
		default:
			return !target.OverflowFloat(f)
		}
	}
}

func isNumeric(t reflect.Type) bool {
	k := t.Kind()
	return isSigned(k) || isUnsigned(k) || k == reflect.Float32 || k == reflect.Float64
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

// errorType contains reflection type for error variable.
var errorType = reflect.TypeOf((*error)(nil)).Elem()
