package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the engine global into L:
//
//	engine.log.debug/info/warn/error(msg)  write to the Manager's logger
//	engine.random(n)                       uniform integer in [1, n]
//
// Precondition: L must come from NewSandboxedState.
// Postcondition: engine is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	log := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	} {
		L.SetField(log, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(engine, "log", log)

	L.SetField(engine, "random", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n <= 0 {
			L.ArgError(1, "n must be positive")
			return 0
		}
		L.Push(lua.LNumber(m.src.Intn(n) + 1))
		return 1
	}))

	L.SetGlobal("engine", engine)
}
