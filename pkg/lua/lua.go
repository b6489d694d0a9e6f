package lua

const (
	VERSION_MAJOR = 4
	VERSION_MINOR = 0
)

/* last format change was in 4.0 */
const VERSION = VERSION_MAJOR*16 + VERSION_MINOR

/* mark for precompiled code ('<esc>Lua') */
const SIGNATURE = "\x1bLua"

/* option for multiple returns */
const MULTRET = -1

/* MULTRET as it appears in the B field of a call instruction */
const MULT_RET = 255

/* number of list items to accumulate before a SETLIST instruction */
const LFIELDS_PER_FLUSH = 64

/* type of numbers in Lua */
type Number = float64

/* constant written after the header to detect the number format */
const TEST_NUMBER Number = 3.14159265358979323846e8
