package xtralite

import (
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Context is an EvalContext over plain Go data. Variables come from a map
// with parent fallback; members are looked up in maps, struct fields and
// methods; Go functions can be invoked.
type Context struct {
	data   map[string]any
	parent *Context
	mu     sync.RWMutex
}

// NewContext creates a new evaluation context with the given data.
// If data is nil, an empty map is used.
func NewContext(data map[string]any) *Context {
	if data == nil {
		data = make(map[string]any)
	}
	return &Context{data: data}
}

// Child creates a child context with additional data.
// The child inherits from the parent and can override values.
func (c *Context) Child(data map[string]any) *Context {
	child := NewContext(data)
	child.parent = c
	return child
}

// Set sets a top-level variable.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value
}

// lookup finds a top-level variable, falling back to the parent chain
func (c *Context) lookup(name string) (any, bool) {
	c.mu.RLock()
	val, ok := c.data[name]
	c.mu.RUnlock()
	if ok {
		return val, true
	}
	if c.parent != nil {
		return c.parent.lookup(name)
	}
	return nil, false
}

// Get retrieves a value by dot-notation path (e.g., "user.profile.name").
func (c *Context) Get(path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	parts := strings.Split(path, PathSeparator)
	current, ok := c.lookup(parts[0])
	if !ok {
		return nil, false
	}
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		current, ok = memberOf(current, part)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Has checks if a value exists at the given path.
func (c *Context) Has(path string) bool {
	_, ok := c.Get(path)
	return ok
}

// Resolve implements EvalContext. Names missing from the data resolve to
// the constants true, false, null and undefined.
func (c *Context) Resolve(name string) (Value, bool) {
	if val, ok := c.lookup(name); ok {
		return FromGo(val), true
	}
	switch name {
	case ConstTrue:
		return Bool(true), true
	case ConstFalse:
		return Bool(false), true
	case ConstNull, ConstUndefined:
		return Undefined(), true
	}
	return Undefined(), false
}

// Member implements EvalContext. Strings and sequences answer "length".
func (c *Context) Member(obj Value, name string) (Value, bool) {
	switch obj.Kind() {
	case KindString:
		if name == MemberLength {
			s, _ := obj.AsString()
			return NumberFromInt(int64(utf8.RuneCountInString(s))), true
		}
	case KindSequence:
		if name == MemberLength {
			items, _ := obj.AsSequence()
			return NumberFromInt(int64(len(items))), true
		}
	case KindObject:
		raw, _ := obj.AsObject()
		if val, ok := memberOf(raw, name); ok {
			return FromGo(val), true
		}
	}
	return Undefined(), false
}

// Invoke implements EvalContext. The target must hold a Go function; a
// trailing error result that is non-nil fails the call.
func (c *Context) Invoke(target Value, args []Value) (result Value, ok bool) {
	raw, isObj := target.AsObject()
	if !isObj {
		return Undefined(), false
	}

	defer func() {
		if recover() != nil {
			result, ok = Undefined(), false
		}
	}()
	if fn, isNative := raw.(func([]Value) Value); isNative {
		return fn(args), true
	}

	fn := reflect.ValueOf(raw)
	if fn.Kind() != reflect.Func {
		return Undefined(), false
	}
	in, converted := callArgs(fn.Type(), args)
	if !converted {
		return Undefined(), false
	}
	return callResult(fn.Call(in))
}

var (
	valueType   = reflect.TypeOf(Value{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// memberOf looks name up in maps, struct fields and methods. Methods without
// parameters are called; others are returned bound, ready to be invoked.
func memberOf(obj any, name string) (any, bool) {
	switch m := obj.(type) {
	case map[string]any:
		v, ok := m[name]
		return v, ok
	case map[string]string:
		v, ok := m[name]
		return v, ok
	case map[string]Value:
		v, ok := m[name]
		return v, ok
	}

	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return nil, false
	}
	if method := rv.MethodByName(name); method.IsValid() {
		return methodValue(method)
	}

	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		field, found := rv.Type().FieldByName(name)
		if !found || !field.IsExported() {
			return nil, false
		}
		return rv.FieldByIndex(field.Index).Interface(), true
	}
	return nil, false
}

func methodValue(method reflect.Value) (result any, ok bool) {
	if method.Type().NumIn() > 0 {
		return method.Interface(), true
	}

	defer func() {
		if recover() != nil {
			result, ok = nil, false
		}
	}()
	v, called := callResult(method.Call(nil))
	if !called {
		return nil, false
	}
	return v, true
}

// callArgs converts evaluated arguments to the parameter types of fn
func callArgs(fn reflect.Type, args []Value) ([]reflect.Value, bool) {
	fixed := fn.NumIn()
	if fn.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, false
		}
	} else if len(args) != fixed {
		return nil, false
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var param reflect.Type
		if i < fixed {
			param = fn.In(i)
		} else {
			param = fn.In(fn.NumIn() - 1).Elem()
		}
		v, ok := convertArg(arg, param)
		if !ok {
			return nil, false
		}
		in[i] = v
	}
	return in, true
}

func convertArg(arg Value, param reflect.Type) (reflect.Value, bool) {
	switch param {
	case valueType:
		return reflect.ValueOf(arg), true
	case decimalType:
		n, ok := arg.ToNumber()
		return reflect.ValueOf(n), ok
	}

	if isNumeric(param.Kind()) && arg.Kind() == KindNumber {
		n, _ := arg.ToNumber()
		return numericArg(n, param)
	}

	g := arg.ToGo()
	if g == nil {
		return reflect.Zero(param), true
	}
	gv := reflect.ValueOf(g)
	if gv.Type().AssignableTo(param) {
		return gv, true
	}
	return reflect.Value{}, false
}

// numericArg converts n to an integer or float parameter. Integer parameters
// reject fractions and values out of their range.
func numericArg(n decimal.Decimal, param reflect.Type) (reflect.Value, bool) {
	v := reflect.New(param).Elem()
	switch {
	case param.Kind() == reflect.Float32 || param.Kind() == reflect.Float64:
		f, _ := n.Float64()
		if v.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		v.SetFloat(f)
	case !n.IsInteger():
		return reflect.Value{}, false
	case param.Kind() >= reflect.Uint:
		b := n.BigInt()
		if !b.IsUint64() || v.OverflowUint(b.Uint64()) {
			return reflect.Value{}, false
		}
		v.SetUint(b.Uint64())
	default:
		b := n.BigInt()
		if !b.IsInt64() || v.OverflowInt(b.Int64()) {
			return reflect.Value{}, false
		}
		v.SetInt(b.Int64())
	}
	return v, true
}

func isNumeric(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

// callResult turns function results into a Value: the first result, unless
// the last one is a non-nil error
func callResult(out []reflect.Value) (Value, bool) {
	if len(out) == 0 {
		return Undefined(), true
	}
	last := out[len(out)-1]
	if last.Type().Implements(errorType) {
		if !last.IsNil() {
			return Undefined(), false
		}
		out = out[:len(out)-1]
		if len(out) == 0 {
			return Undefined(), true
		}
	}
	return FromGo(out[0].Interface()), true
}
