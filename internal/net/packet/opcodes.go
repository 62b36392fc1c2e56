package packet

// Client → server opcodes.
const (
	C_OPCODE_LOGIN byte = 0x10 // name, password
	C_OPCODE_MOVE  byte = 0x11 // x, y
	C_OPCODE_QUIT  byte = 0x12
)

// Server → client opcodes.
const (
	S_OPCODE_INIT      byte = 0x7E // plaintext: cipher seed
	S_OPCODE_LOGIN_OK  byte = 0x20 // entity id, map, x, y
	S_OPCODE_LOGIN_ERR byte = 0x21 // reason string
)

// SessionState tracks where a connection is in its lifecycle.
type SessionState int32

const (
	StateHandshake SessionState = iota
	StateAuthed
	StateInWorld
	StateDisconnecting
)
