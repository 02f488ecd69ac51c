package lumina

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Key    string  `json:"key,omitempty"`
	Text   string  `json:"text,omitempty"`
}

type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences injected input and screenshots across frames for
// automated UI checks. Attach it with Framework.SetScriptRunner.
//
// Actions: click, hover, drag, key, type, wait, screenshot.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON input script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var script inputScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("lumina: parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("lumina: parse input script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "click", "hover", "drag", "type", "wait", "screenshot":
		case "key":
			if _, ok := keyNames[st.Key]; !ok && len(st.Key) != 1 {
				return nil, fmt.Errorf("lumina: parse input script: step %d: unknown key %q", i, st.Key)
			}
		default:
			return nil, fmt.Errorf("lumina: parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// SetScriptRunner attaches a runner. Its step runs at the start of every
// Frame.
func (f *Framework) SetScriptRunner(runner *ScriptRunner) {
	f.runner = runner
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool { return r.done }

// step advances the runner by one frame.
func (r *ScriptRunner) step(f *Framework) {
	if r.done {
		return
	}
	// Let pending injections drain before advancing.
	if len(f.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		f.Screenshot(st.Label)
	case "click":
		f.InjectClick(st.X, st.Y)
	case "hover":
		f.InjectHover(st.X, st.Y)
	case "drag":
		f.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "key":
		f.InjectKey(parseKeyName(st.Key))
	case "type":
		f.InjectText(st.Text)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(f.injectQueue) == 0 {
		r.done = true
	}
}

var keyNames = map[string]Key{
	"enter":     KeyEnter,
	"escape":    KeyEscape,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"space":     KeySpace,
	"left":      KeyLeft,
	"right":     KeyRight,
	"up":        KeyUp,
	"down":      KeyDown,
	"home":      KeyHome,
	"end":       KeyEnd,
}

func parseKeyName(s string) Key {
	if k, ok := keyNames[s]; ok {
		return k
	}
	if len(s) == 1 {
		c := s[0]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		return Key(c)
	}
	return KeyUnknown
}
