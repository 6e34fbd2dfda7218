// internal/keymap/pi2jamma.go
package keymap

// Pi2JammaWidth is the number of switches on a Pi2Jamma board.
const Pi2JammaWidth = 24

// pi2jamma is the stock MAME-style mapping for a Pi2Jamma board, bit 0 first.
var pi2jamma = [Pi2JammaWidth]Key{
	KeySpace,     // P1 B3
	KeyLeftShift, // P1 B4
	KeyZ,         // P1 B5
	KeyX,         // P1 B6
	KeyI,         // P2 B5
	KeyK,         // P2 B6
	KeyW,         // P2 B4
	KeyQ,         // P2 B3
	KeyLeft,      // P1 left
	KeyRight,     // P1 right
	KeyLeftCtrl,  // P1 B1
	KeyLeftAlt,   // P1 B2
	KeyS,         // P2 B2
	KeyA,         // P2 B1
	KeyG,         // P2 right
	KeyD,         // P2 left
	Key5,         // P1 coin
	Key1,         // P1 start
	KeyUp,        // P1 up
	KeyDown,      // P1 down
	KeyF,         // P2 down
	KeyR,         // P2 up
	Key2,         // P2 start
	Key6,         // P2 coin
}

// Pi2Jamma returns a fresh copy of the stock table.
func Pi2Jamma() []Key {
	keys := pi2jamma
	return keys[:]
}

// DefaultPi2Jamma returns a validated map over the stock table.
func DefaultPi2Jamma() *Map {
	m, err := New(Pi2Jamma(), Pi2JammaWidth)
	if err != nil {
		panic(err)
	}
	return m
}
