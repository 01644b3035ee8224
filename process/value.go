package process

import "fmt"

// ValueKind identifies the wire type of a patch value.
type ValueKind int

const (
	KindInt32 ValueKind = iota
	KindFloat32
	KindFloat64
)

func (k ValueKind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Value is a typed value written into target memory. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	I32  int32
	F32  float32
	F64  float64
}

// Int32Value creates an int32-typed Value
func Int32Value(v int32) Value {
	return Value{Kind: KindInt32, I32: v}
}

// Float32Value creates a float32-typed Value
func Float32Value(v float32) Value {
	return Value{Kind: KindFloat32, F32: v}
}

// Float64Value creates a float64-typed Value
func Float64Value(v float64) Value {
	return Value{Kind: KindFloat64, F64: v}
}

// Size returns the encoded width of the value in target memory.
func (v Value) Size() MemorySize {
	switch v.Kind {
	case KindInt32, KindFloat32:
		return 4
	case KindFloat64:
		return 8
	}
	return 0
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt32:
		return fmt.Sprintf("int32(%d)", v.I32)
	case KindFloat32:
		return fmt.Sprintf("float32(%g)", v.F32)
	case KindFloat64:
		return fmt.Sprintf("float64(%g)", v.F64)
	}
	return "value(?)"
}
