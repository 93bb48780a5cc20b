package tui

// Key bindings.
const (
	keyQuit    = "q"
	keyCtrlC   = "ctrl+c"
	keyEnter   = "enter"
	keyEsc     = "esc"
	keySlash   = "/"
	keyTab     = "tab"
	keyField   = "f"
	keyClear   = "c"
	keyS       = "s"
	keyShiftS  = "S"
	keyNext    = "n"
	keyRight   = "right"
	keyPrev    = "p"
	keyLeft    = "left"
	keyPlus    = "+"
	keyMinus   = "-"
	keyRefresh = "r"
	keyDelete  = "d"
	keyYes     = "y"
	keyNo      = "n"
)
