package log

const (
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
	ansiReset  = "\033[0m"
)

// Palette returns the ANSI directives the logger paints messages with.
type Palette struct{}

// Red is used for errors.
func (Palette) Red() string { return ansiRed }

// Green marks steps.
func (Palette) Green() string { return ansiGreen }

// Yellow is used for warnings.
func (Palette) Yellow() string { return ansiYellow }

// Blue is used for info messages.
func (Palette) Blue() string { return ansiBlue }

// Cyan is used for debug messages.
func (Palette) Cyan() string { return ansiCyan }

// Reset restores the terminal colour.
func (Palette) Reset() string { return ansiReset }

// ConsoleColors is the palette shared by every Logger.
var ConsoleColors = Palette{}
