// internal/keymap/keys.go
package keymap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bendahl/uinput"
	"github.com/pkg/errors"
)

// Key is a Linux input event key code (include/uapi/linux/input-event-codes.h).
type Key uint16

// Key codes an arcade panel is commonly mapped to. Values come from the
// uinput package so the two never disagree.
const (
	KeyEsc        Key = uinput.KeyEsc
	Key1          Key = uinput.Key1
	Key2          Key = uinput.Key2
	Key3          Key = uinput.Key3
	Key4          Key = uinput.Key4
	Key5          Key = uinput.Key5
	Key6          Key = uinput.Key6
	Key7          Key = uinput.Key7
	Key8          Key = uinput.Key8
	Key9          Key = uinput.Key9
	Key0          Key = uinput.Key0
	KeyMinus      Key = uinput.KeyMinus
	KeyEqual      Key = uinput.KeyEqual
	KeyBackspace  Key = uinput.KeyBackspace
	KeyTab        Key = uinput.KeyTab
	KeyQ          Key = uinput.KeyQ
	KeyW          Key = uinput.KeyW
	KeyE          Key = uinput.KeyE
	KeyR          Key = uinput.KeyR
	KeyT          Key = uinput.KeyT
	KeyY          Key = uinput.KeyY
	KeyU          Key = uinput.KeyU
	KeyI          Key = uinput.KeyI
	KeyO          Key = uinput.KeyO
	KeyP          Key = uinput.KeyP
	KeyLeftBrace  Key = uinput.KeyLeftbrace
	KeyRightBrace Key = uinput.KeyRightbrace
	KeyEnter      Key = uinput.KeyEnter
	KeyLeftCtrl   Key = uinput.KeyLeftctrl
	KeyA          Key = uinput.KeyA
	KeyS          Key = uinput.KeyS
	KeyD          Key = uinput.KeyD
	KeyF          Key = uinput.KeyF
	KeyG          Key = uinput.KeyG
	KeyH          Key = uinput.KeyH
	KeyJ          Key = uinput.KeyJ
	KeyK          Key = uinput.KeyK
	KeyL          Key = uinput.KeyL
	KeySemicolon  Key = uinput.KeySemicolon
	KeyApostrophe Key = uinput.KeyApostrophe
	KeyGrave      Key = uinput.KeyGrave
	KeyLeftShift  Key = uinput.KeyLeftshift
	KeyBackslash  Key = uinput.KeyBackslash
	KeyZ          Key = uinput.KeyZ
	KeyX          Key = uinput.KeyX
	KeyC          Key = uinput.KeyC
	KeyV          Key = uinput.KeyV
	KeyB          Key = uinput.KeyB
	KeyN          Key = uinput.KeyN
	KeyM          Key = uinput.KeyM
	KeyComma      Key = uinput.KeyComma
	KeyDot        Key = uinput.KeyDot
	KeySlash      Key = uinput.KeySlash
	KeyRightShift Key = uinput.KeyRightshift
	KeyLeftAlt    Key = uinput.KeyLeftalt
	KeySpace      Key = uinput.KeySpace
	KeyCapsLock   Key = uinput.KeyCapslock
	KeyF1         Key = uinput.KeyF1
	KeyF2         Key = uinput.KeyF2
	KeyF3         Key = uinput.KeyF3
	KeyF4         Key = uinput.KeyF4
	KeyF5         Key = uinput.KeyF5
	KeyF6         Key = uinput.KeyF6
	KeyF7         Key = uinput.KeyF7
	KeyF8         Key = uinput.KeyF8
	KeyF9         Key = uinput.KeyF9
	KeyF10        Key = uinput.KeyF10
	KeyF11        Key = uinput.KeyF11
	KeyF12        Key = uinput.KeyF12
	KeyRightCtrl  Key = uinput.KeyRightctrl
	KeyRightAlt   Key = uinput.KeyRightalt
	KeyHome       Key = uinput.KeyHome
	KeyUp         Key = uinput.KeyUp
	KeyPageUp     Key = uinput.KeyPageup
	KeyLeft       Key = uinput.KeyLeft
	KeyRight      Key = uinput.KeyRight
	KeyEnd        Key = uinput.KeyEnd
	KeyDown       Key = uinput.KeyDown
	KeyPageDown   Key = uinput.KeyPagedown
	KeyInsert     Key = uinput.KeyInsert
	KeyDelete     Key = uinput.KeyDelete
	KeyPause      Key = uinput.KeyPause
)

var keyNames = map[Key]string{
	KeyEsc:        "KEY_ESC",
	Key1:          "KEY_1",
	Key2:          "KEY_2",
	Key3:          "KEY_3",
	Key4:          "KEY_4",
	Key5:          "KEY_5",
	Key6:          "KEY_6",
	Key7:          "KEY_7",
	Key8:          "KEY_8",
	Key9:          "KEY_9",
	Key0:          "KEY_0",
	KeyMinus:      "KEY_MINUS",
	KeyEqual:      "KEY_EQUAL",
	KeyBackspace:  "KEY_BACKSPACE",
	KeyTab:        "KEY_TAB",
	KeyQ:          "KEY_Q",
	KeyW:          "KEY_W",
	KeyE:          "KEY_E",
	KeyR:          "KEY_R",
	KeyT:          "KEY_T",
	KeyY:          "KEY_Y",
	KeyU:          "KEY_U",
	KeyI:          "KEY_I",
	KeyO:          "KEY_O",
	KeyP:          "KEY_P",
	KeyLeftBrace:  "KEY_LEFTBRACE",
	KeyRightBrace: "KEY_RIGHTBRACE",
	KeyEnter:      "KEY_ENTER",
	KeyLeftCtrl:   "KEY_LEFTCTRL",
	KeyA:          "KEY_A",
	KeyS:          "KEY_S",
	KeyD:          "KEY_D",
	KeyF:          "KEY_F",
	KeyG:          "KEY_G",
	KeyH:          "KEY_H",
	KeyJ:          "KEY_J",
	KeyK:          "KEY_K",
	KeyL:          "KEY_L",
	KeySemicolon:  "KEY_SEMICOLON",
	KeyApostrophe: "KEY_APOSTROPHE",
	KeyGrave:      "KEY_GRAVE",
	KeyLeftShift:  "KEY_LEFTSHIFT",
	KeyBackslash:  "KEY_BACKSLASH",
	KeyZ:          "KEY_Z",
	KeyX:          "KEY_X",
	KeyC:          "KEY_C",
	KeyV:          "KEY_V",
	KeyB:          "KEY_B",
	KeyN:          "KEY_N",
	KeyM:          "KEY_M",
	KeyComma:      "KEY_COMMA",
	KeyDot:        "KEY_DOT",
	KeySlash:      "KEY_SLASH",
	KeyRightShift: "KEY_RIGHTSHIFT",
	KeyLeftAlt:    "KEY_LEFTALT",
	KeySpace:      "KEY_SPACE",
	KeyCapsLock:   "KEY_CAPSLOCK",
	KeyF1:         "KEY_F1",
	KeyF2:         "KEY_F2",
	KeyF3:         "KEY_F3",
	KeyF4:         "KEY_F4",
	KeyF5:         "KEY_F5",
	KeyF6:         "KEY_F6",
	KeyF7:         "KEY_F7",
	KeyF8:         "KEY_F8",
	KeyF9:         "KEY_F9",
	KeyF10:        "KEY_F10",
	KeyF11:        "KEY_F11",
	KeyF12:        "KEY_F12",
	KeyRightCtrl:  "KEY_RIGHTCTRL",
	KeyRightAlt:   "KEY_RIGHTALT",
	KeyHome:       "KEY_HOME",
	KeyUp:         "KEY_UP",
	KeyPageUp:     "KEY_PAGEUP",
	KeyLeft:       "KEY_LEFT",
	KeyRight:      "KEY_RIGHT",
	KeyEnd:        "KEY_END",
	KeyDown:       "KEY_DOWN",
	KeyPageDown:   "KEY_PAGEDOWN",
	KeyInsert:     "KEY_INSERT",
	KeyDelete:     "KEY_DELETE",
	KeyPause:      "KEY_PAUSE",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, n := range keyNames {
		m[n] = k
	}
	return m
}()

// String returns the kernel name, or CODE_<n> for codes without one.
func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("CODE_%d", uint16(k))
}

// ParseKey accepts a key name with or without its prefix ("KEY_SPACE",
// "space", "5" for KEY_5) or a raw decimal code as "CODE_57".
// Bare digits always name the number keys, never a raw code.
func ParseKey(s string) (Key, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return 0, errors.New("keymap: empty key name")
	}

	if raw, ok := strings.CutPrefix(name, "CODE_"); ok {
		code, err := strconv.ParseUint(raw, 10, 16)
		if err != nil || code == 0 {
			return 0, errors.Errorf("keymap: bad key code %q", s)
		}
		return Key(code), nil
	}

	if !strings.HasPrefix(name, "KEY_") {
		name = "KEY_" + name
	}
	if k, ok := keysByName[name]; ok {
		return k, nil
	}
	return 0, errors.Errorf("keymap: unknown key %q", s)
}

// ParseKeys parses names in order.
func ParseKeys(names []string) ([]Key, error) {
	out := make([]Key, 0, len(names))
	for i, n := range names {
		k, err := ParseKey(n)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		out = append(out, k)
	}
	return out, nil
}
