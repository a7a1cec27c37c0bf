// Package types represents the source language's type system: the two-element
// sort Int | ClassType(name), and the class registry the typechecker and IR
// builder both consult for field/method layout.
package types

import "fmt"

// Kind distinguishes the two type constructors.
type Kind int

const (
	Int Kind = iota
	Class
)

// Type is either Int or a nominal ClassType. Two class types are equal iff
// their names match; there is no subtyping or inheritance.
type Type struct {
	Kind      Kind
	ClassName string
}

// IntType is the single Int type value.
var IntType = Type{Kind: Int}

// ClassType constructs the class type named name.
func ClassType(name string) Type {
	return Type{Kind: Class, ClassName: name}
}

// Equal reports whether two types are the same type.
func (t Type) Equal(other Type) bool {
	return t.Kind == other.Kind && t.ClassName == other.ClassName
}

func (t Type) String() string {
	if t.Kind == Int {
		return "int"
	}
	return t.ClassName
}

// ParseName resolves a type name written in source (either "int" or a class
// name) against the registry. ok is false if the name is neither "int" nor a
// declared class.
func (r *Registry) ParseName(name string) (Type, bool) {
	if name == "int" {
		return IntType, true
	}
	if _, declared := r.Classes[name]; declared {
		return ClassType(name), true
	}
	return Type{}, false
}

// Method describes one method's signature.
type Method struct {
	Name       string
	Params     []Param
	ReturnType Type
}

// Param is a single method parameter's name and type.
type Param struct {
	Name string
	Type Type
}

// ClassInfo holds everything the IR builder and typechecker need to know
// about one declared class.
type ClassInfo struct {
	Name string

	// FieldNames is the field declaration order within this class.
	FieldNames []string
	FieldType  map[string]Type

	// FieldOffset is the object-layout slot for each field: 1 + position.
	// Slot 0 is reserved for the vtable pointer.
	FieldOffset map[string]int

	// MethodOrder is the method declaration order within this class.
	MethodOrder []string
	Methods     map[string]*Method
}

// Registry is the whole program's class table plus the single global
// field-id/method-id numbering shared by every class's data-section arrays.
type Registry struct {
	Classes    map[string]*ClassInfo
	ClassOrder []string

	// FieldID/MethodID assign a global id to every distinct field/method name
	// seen across all classes, in one left-to-right walk over classes in
	// declaration order, first occurrence wins. These ids index the fieldsC
	// and vtblC data-section arrays.
	FieldID      map[string]int
	FieldIDOrder []string
	MethodID     map[string]int
	MethodIDOrder []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Classes:      make(map[string]*ClassInfo),
		FieldID:      make(map[string]int),
		MethodID:     make(map[string]int),
	}
}

// AddClass registers a class, in declaration order, with no fields or
// methods; AddField and AddMethod add those. It must be called once per
// class, in source order, before any lookups.
func (r *Registry) AddClass(name string) *ClassInfo {
	info := &ClassInfo{
		Name:        name,
		FieldType:   make(map[string]Type),
		FieldOffset: make(map[string]int),
		Methods:     make(map[string]*Method),
	}
	r.Classes[name] = info
	r.ClassOrder = append(r.ClassOrder, name)
	return info
}

// AddField registers one field of a class and assigns it a global field id
// if this field name has not been seen before (in any class).
func (info *ClassInfo) AddField(r *Registry, name string, typ Type) {
	slot := 1 + len(info.FieldNames)
	info.FieldNames = append(info.FieldNames, name)
	info.FieldType[name] = typ
	info.FieldOffset[name] = slot

	if _, seen := r.FieldID[name]; !seen {
		r.FieldID[name] = len(r.FieldIDOrder)
		r.FieldIDOrder = append(r.FieldIDOrder, name)
	}
}

// AddMethod registers one method of a class and assigns it a global method
// id if this method name has not been seen before (in any class).
func (info *ClassInfo) AddMethod(r *Registry, m *Method) {
	info.MethodOrder = append(info.MethodOrder, m.Name)
	info.Methods[m.Name] = m

	if _, seen := r.MethodID[m.Name]; !seen {
		r.MethodID[m.Name] = len(r.MethodIDOrder)
		r.MethodIDOrder = append(r.MethodIDOrder, m.Name)
	}
}

// Field looks up a field by name, searching the class and reporting whether
// it was found.
func (info *ClassInfo) Field(name string) (Type, int, bool) {
	if typ, ok := info.FieldType[name]; ok {
		return typ, info.FieldOffset[name], true
	}
	return Type{}, 0, false
}

// Method looks up a method by name, searching the class and reporting
// whether it was found.
func (info *ClassInfo) Method(name string) (*Method, bool) {
	m, ok := info.Methods[name]
	return m, ok
}

// VtableLabel returns the IR function label for class className's
// implementation of methodName.
func VtableLabel(methodName, className string) string {
	return fmt.Sprintf("%s%s", methodName, className)
}

// VtableName returns the data-section name of class className's vtable.
func VtableName(className string) string {
	return fmt.Sprintf("vtbl%s", className)
}

// FieldsArrayName returns the data-section name of class className's field
// id table.
func FieldsArrayName(className string) string {
	return fmt.Sprintf("fields%s", className)
}
