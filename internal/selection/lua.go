package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// DefaultLuaScript prefers long captures, then promotions, then the lowest
// index. Choices are a 1-based Lua array; the script returns the 0-based
// "idx" field of the pick.
const DefaultLuaScript = `
function choose(req)
  local best, bestScore = 0, -1
  for _, c in ipairs(req.choices) do
    local score = 0
    if type(c) == "table" then
      score = (c.jumps or 0) * 10
      if c.promotes then score = score + 5 end
    end
    if score > bestScore then
      best, bestScore = c.idx, score
    end
  end
  return best
end
`

// LuaChooser runs a script that defines choose(req). A fresh interpreter is
// used per call, so scripts cannot keep state between moves.
type LuaChooser struct {
	Script string
}

func (c *LuaChooser) Choose(ctx context.Context, req Request) (int, error) {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	script := c.Script
	if script == "" {
		script = DefaultLuaScript
	}
	if err := L.DoString(script); err != nil {
		return 0, fmt.Errorf("load lua script: %w", err)
	}
	fn := L.GetGlobal("choose")
	if fn.Type() != lua.LTFunction {
		return 0, errors.New("lua script does not define choose(req)")
	}

	arg, err := requestToLua(L, req)
	if err != nil {
		return 0, err
	}
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, arg); err != nil {
		return 0, fmt.Errorf("lua choose: %w", err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("lua choose returned %s, want number", ret.Type())
	}
	f := float64(n)
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("lua choose returned non-integer %v", f)
	}
	return int(f), nil
}

func requestToLua(L *lua.LState, req Request) (lua.LValue, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return lua.LNil, fmt.Errorf("encode request: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return lua.LNil, fmt.Errorf("decode request: %w", err)
	}
	return toLua(L, generic), nil
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case float64:
		return lua.LNumber(x)
	case string:
		return lua.LString(x)
	case []any:
		t := L.NewTable()
		for _, item := range x {
			t.Append(toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range x {
			L.SetField(t, k, toLua(L, item))
		}
		return t
	}
	return lua.LNil
}
