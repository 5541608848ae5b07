package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/plus3/ecscore/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ErrNoTick is returned when a script does not define a global tick function.
var ErrNoTick = errors.New("script: no global tick function")

type Option func(*options)

type options struct {
	logger *zap.Logger
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// System is an ecs.System whose behavior is written in Lua.
//
// The script must define a global function tick(delta, ids), called once per
// dispatch with the elapsed time and an array of the ids of the matching
// entities. During tick the script may call:
//
//	destroy(id)  destroy the entity, returns false if no such entity is spawned
//	count()      number of live entities
//	log(msg)     debug log through the system's logger
//
// A System wraps a single Lua VM and must only be used from one goroutine.
type System[S any] struct {
	name     string
	requires []reflect.Type
	vm       *lua.LState
	log      *zap.Logger

	// frame is set only while tick runs.
	frame *ecs.Frame[S]
}

// New compiles source and returns a system requiring the given component
// types.
func New[S any](name, source string, requires []reflect.Type, opts ...Option) (*System[S], error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &System[S]{
		name:     name,
		requires: requires,
		vm:       lua.NewState(),
		log:      o.logger.With(zap.String("script", name)),
	}
	s.vm.SetGlobal("API_VERSION", lua.LNumber(1))
	s.vm.SetGlobal("destroy", s.vm.NewFunction(s.luaDestroy))
	s.vm.SetGlobal("count", s.vm.NewFunction(s.luaCount))
	s.vm.SetGlobal("log", s.vm.NewFunction(s.luaLog))

	if err := s.vm.DoString(source); err != nil {
		s.vm.Close()
		return nil, fmt.Errorf("load script %s: %w", name, err)
	}
	if s.vm.GetGlobal("tick").Type() != lua.LTFunction {
		s.vm.Close()
		return nil, fmt.Errorf("load script %s: %w", name, ErrNoTick)
	}
	s.log.Debug("loaded lua script")
	return s, nil
}

// LoadFile is New with the contents of the file at path, named after the
// file.
func LoadFile[S any](path string, requires []reflect.Type, opts ...Option) (*System[S], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return New[S](filepath.Base(path), string(data), requires, opts...)
}

func (s *System[S]) Name() string {
	return s.name
}

func (s *System[S]) Requires() []reflect.Type {
	return s.requires
}

// Execute calls the script's tick function. A Lua runtime error is returned
// as an error.
func (s *System[S]) Execute(frame *ecs.Frame[S]) error {
	ids := s.vm.NewTable()
	for e := range frame.Entities {
		ids.Append(lua.LNumber(e.ID()))
	}

	s.frame = frame
	defer func() { s.frame = nil }()

	if err := s.vm.CallByParam(lua.P{
		Fn:      s.vm.GetGlobal("tick"),
		NRet:    0,
		Protect: true,
	}, lua.LNumber(frame.DeltaTime), ids); err != nil {
		return fmt.Errorf("script %s: %w", s.name, err)
	}
	return nil
}

// Close releases the Lua VM.
func (s *System[S]) Close() error {
	s.vm.Close()
	return nil
}

func (s *System[S]) manager(L *lua.LState, fn string) *ecs.EntityManager {
	if s.frame == nil {
		L.RaiseError("%s called outside tick", fn)
		return nil
	}
	return s.frame.EntityManager()
}

func (s *System[S]) luaDestroy(L *lua.LState) int {
	id := L.CheckInt(1)
	m := s.manager(L, "destroy")
	e, ok := m.Entity(ecs.EntityID(id))
	if ok {
		m.DestroyEntity(e)
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (s *System[S]) luaCount(L *lua.LState) int {
	m := s.manager(L, "count")
	L.Push(lua.LNumber(m.Len()))
	return 1
}

func (s *System[S]) luaLog(L *lua.LState) int {
	s.log.Debug(L.CheckString(1))
	return 0
}
