package scripting

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/creaturebattle/internal/game/creature"
)

// Hook names looked up in the arena VM.
const (
	HookOnDamage = "on_damage"
	HookOnFaint  = "on_faint"
)

// BattleHooks adapts a Manager to battle.Hooks for one arena.
type BattleHooks struct {
	mgr     *Manager
	arenaID string
}

// NewBattleHooks returns hooks that dispatch to arenaID's scripts.
//
// Precondition: mgr must be non-nil.
func NewBattleHooks(mgr *Manager, arenaID string) *BattleHooks {
	return &BattleHooks{mgr: mgr, arenaID: arenaID}
}

// OnDamage calls on_damage(attacker, defender, skill, damage). A numeric return
// replaces the damage, truncated toward zero and clamped to [0, math.MaxInt32];
// NaN or a non-number keeps it.
func (h *BattleHooks) OnDamage(attacker, defender *creature.Creature, skill creature.Skill, damage int) int {
	ret, _ := h.mgr.call(h.arenaID, HookOnDamage, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{
			creatureTable(L, attacker),
			creatureTable(L, defender),
			skillTable(L, skill),
			lua.LNumber(damage),
		}
	})
	n, ok := ret.(lua.LNumber)
	if !ok || math.IsNaN(float64(n)) {
		return damage
	}
	switch {
	case n <= 0:
		return 0
	case n >= math.MaxInt32:
		return math.MaxInt32
	}
	return int(n)
}

// OnFaint calls on_faint(side_id, creature). The return value is ignored.
func (h *BattleHooks) OnFaint(sideID string, c *creature.Creature) {
	_, _ = h.mgr.call(h.arenaID, HookOnFaint, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{lua.LString(sideID), creatureTable(L, c)}
	})
}

// creatureTable copies c into a Lua table; scripts cannot mutate the creature.
func creatureTable(L *lua.LState, c *creature.Creature) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(c.ID))
	L.SetField(t, "species", lua.LString(c.SpeciesID))
	L.SetField(t, "name", lua.LString(c.Name))
	L.SetField(t, "element", lua.LString(c.Element.String()))
	L.SetField(t, "hp", lua.LNumber(c.HP))
	L.SetField(t, "max_hp", lua.LNumber(c.MaxHP))
	L.SetField(t, "attack", lua.LNumber(c.Attack))
	L.SetField(t, "defense", lua.LNumber(c.Defense))
	L.SetField(t, "sp_attack", lua.LNumber(c.SpAttack))
	L.SetField(t, "sp_defense", lua.LNumber(c.SpDefense))
	L.SetField(t, "speed", lua.LNumber(c.Speed))
	return t
}

func skillTable(L *lua.LState, s creature.Skill) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(s.ID))
	L.SetField(t, "name", lua.LString(s.Name))
	L.SetField(t, "element", lua.LString(s.Element.String()))
	L.SetField(t, "base_damage", lua.LNumber(s.BaseDamage))
	L.SetField(t, "physical", lua.LBool(s.Physical))
	return t
}
