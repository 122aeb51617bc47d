package param

import (
	"strings"

	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// ParamList is an ordered list of attributes. Names are matched without
// regard to case. The zero value is an empty list ready to use.
type ParamList struct {
	values []*ParamValue
}

// Len returns the number of attributes.
func (l *ParamList) Len() int { return len(l.values) }

// At returns the i-th attribute.
func (l *ParamList) At(i int) *ParamValue { return l.values[i] }

// All returns the attributes in insertion order. The slice must not be
// modified.
func (l *ParamList) All() []*ParamValue { return l.values }

func (l *ParamList) index(name string) int {
	for i, p := range l.values {
		if strings.EqualFold(p.name, name) {
			return i
		}
	}
	return -1
}

// Find returns the attribute with the given name, or nil.
func (l *ParamList) Find(name string) *ParamValue {
	if i := l.index(name); i >= 0 {
		return l.values[i]
	}
	return nil
}

// FindTyped returns the attribute with the given name and exactly the given
// per-value type, or nil.
func (l *ParamList) FindTyped(name string, typ typedesc.TypeDesc) *ParamValue {
	p := l.Find(name)
	if p == nil || p.typ != typ {
		return nil
	}
	return p
}

// Set adds p, replacing (and releasing) any attribute of the same name.
func (l *ParamList) Set(p *ParamValue) {
	if i := l.index(p.name); i >= 0 {
		if l.values[i] != p {
			l.values[i].Release()
		}
		l.values[i] = p
		return
	}
	l.values = append(l.values, p)
}

// SetString is shorthand for Set(NewString(name, value)).
func (l *ParamList) SetString(name, value string) { l.Set(NewString(name, value)) }

// SetInt is shorthand for Set(NewInt(name, value)).
func (l *ParamList) SetInt(name string, value int32) { l.Set(NewInt(name, value)) }

// SetFloat is shorthand for Set(NewFloat(name, value)).
func (l *ParamList) SetFloat(name string, value float32) { l.Set(NewFloat(name, value)) }

// Remove deletes the named attribute. It reports whether one was found.
func (l *ParamList) Remove(name string) bool {
	i := l.index(name)
	if i < 0 {
		return false
	}
	l.values[i].Release()
	l.values = append(l.values[:i], l.values[i+1:]...)
	return true
}

// Clone returns a deep copy of l.
func (l *ParamList) Clone() ParamList {
	out := ParamList{values: make([]*ParamValue, len(l.values))}
	for i, p := range l.values {
		out.values[i] = p.Clone()
	}
	return out
}
