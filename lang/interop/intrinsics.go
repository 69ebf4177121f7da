package interop

import (
	"fmt"

	"github.com/voxelforge/blockscript/lang/symbol"
	"github.com/voxelforge/blockscript/lang/vm"
)

// CreateIntrinsicFunction declares name as a host intrinsic on lib (so
// script source can call it by name and the builder/canonizer can see
// its signature) and registers fn as the callback the VM dispatches to
// at a FunGo naming it. argNames is carried for diagnostics only; the
// builder resolves overloads purely by argTypes.
func CreateIntrinsicFunction(lib *symbol.Library, name string, argNames []string, argTypes []*symbol.Type, retType *symbol.Type, fn vm.IntrinsicFunc) error {
	if len(argNames) != len(argTypes) {
		return fmt.Errorf("interop: intrinsic %q argument name/type count mismatch", name)
	}
	if err := lib.CreateIntrinsicFunctions([]symbol.IntrinsicDef{{Name: name, ArgTypes: argTypes, RetType: retType}}); err != nil {
		return err
	}
	return nil
}

// RegisterIntrinsic wires fn into r's running state under name, so a
// FunGo instruction naming an intrinsic already declared via
// CreateIntrinsicFunction dispatches to it. Call after Start (or before
// the first Step; the registry is read, not snapshotted, so later calls
// still take effect as long as they happen before the corresponding
// FunGo executes).
func (r *Runtime) RegisterIntrinsic(name string, fn vm.IntrinsicFunc) {
	if r.State.Intrinsics == nil {
		r.State.Intrinsics = make(map[string]vm.IntrinsicFunc)
	}
	r.State.Intrinsics[name] = fn
}
