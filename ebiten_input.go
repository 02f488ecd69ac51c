package lumina

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var ebitenLetters = [...]ebiten.Key{
	ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF,
	ebiten.KeyG, ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL,
	ebiten.KeyM, ebiten.KeyN, ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR,
	ebiten.KeyS, ebiten.KeyT, ebiten.KeyU, ebiten.KeyV, ebiten.KeyW, ebiten.KeyX,
	ebiten.KeyY, ebiten.KeyZ,
}

var ebitenDigits = [...]ebiten.Key{
	ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

var ebitenFunctionKeys = [...]ebiten.Key{
	ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5, ebiten.KeyF6,
	ebiten.KeyF7, ebiten.KeyF8, ebiten.KeyF9, ebiten.KeyF10, ebiten.KeyF11, ebiten.KeyF12,
}

var ebitenKeyMap = buildEbitenKeyMap()

func buildEbitenKeyMap() map[ebiten.Key]Key {
	m := map[ebiten.Key]Key{
		ebiten.KeySpace:        KeySpace,
		ebiten.KeyEnter:        KeyEnter,
		ebiten.KeyNumpadEnter:  KeyEnter,
		ebiten.KeyEscape:       KeyEscape,
		ebiten.KeyTab:          KeyTab,
		ebiten.KeyBackspace:    KeyBackspace,
		ebiten.KeyDelete:       KeyDelete,
		ebiten.KeyInsert:       KeyInsert,
		ebiten.KeyArrowLeft:    KeyLeft,
		ebiten.KeyArrowRight:   KeyRight,
		ebiten.KeyArrowUp:      KeyUp,
		ebiten.KeyArrowDown:    KeyDown,
		ebiten.KeyHome:         KeyHome,
		ebiten.KeyEnd:          KeyEnd,
		ebiten.KeyPageUp:       KeyPageUp,
		ebiten.KeyPageDown:     KeyPageDown,
		ebiten.KeyShiftLeft:    KeyShift,
		ebiten.KeyShiftRight:   KeyShift,
		ebiten.KeyControlLeft:  KeyControl,
		ebiten.KeyControlRight: KeyControl,
		ebiten.KeyAltLeft:      KeyAlt,
		ebiten.KeyAltRight:     KeyAlt,
		ebiten.KeyMetaLeft:     KeyMeta,
		ebiten.KeyMetaRight:    KeyMeta,
	}
	for i, k := range ebitenLetters {
		m[k] = KeyA + Key(i)
	}
	for i, k := range ebitenDigits {
		m[k] = Key0 + Key(i)
	}
	for i, k := range ebitenFunctionKeys {
		m[k] = KeyF1 + Key(i)
	}
	return m
}

var ebitenButtons = [mouseButtonCount]ebiten.MouseButton{
	MouseButtonLeft:   ebiten.MouseButtonLeft,
	MouseButtonRight:  ebiten.MouseButtonRight,
	MouseButtonMiddle: ebiten.MouseButtonMiddle,
}

// EbitenInput feeds ebiten's keyboard and mouse state into an InputHandler.
// Only changes are reported; the handler keeps the held state.
type EbitenInput struct {
	keys  []ebiten.Key
	chars []rune
}

// Poll reads this tick's input. When skipPointer is true the pointer is left
// alone so injected input can drive it.
func (in *EbitenInput) Poll(h *InputHandler, skipPointer bool) {
	h.SetModifiers(readModifiers())

	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for _, k := range in.keys {
		if key, ok := ebitenKeyMap[k]; ok {
			h.KeyPressed(key)
		}
	}
	in.keys = inpututil.AppendJustReleasedKeys(in.keys[:0])
	for _, k := range in.keys {
		if key, ok := ebitenKeyMap[k]; ok {
			h.KeyReleased(key)
		}
	}

	in.chars = ebiten.AppendInputChars(in.chars[:0])
	if len(in.chars) > 0 {
		h.TextEntered(string(in.chars))
	}

	if skipPointer {
		return
	}
	x, y := ebiten.CursorPosition()
	h.MouseMoved(Vec2{X: float64(x), Y: float64(y)})
	for b, eb := range ebitenButtons {
		if inpututil.IsMouseButtonJustPressed(eb) {
			h.MousePressed(MouseButton(b))
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			h.MouseReleased(MouseButton(b))
		}
	}
	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		h.Wheel(dx, dy)
	}
}

func readModifiers() KeyModifiers {
	var m KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		m |= ModMeta
	}
	return m
}
