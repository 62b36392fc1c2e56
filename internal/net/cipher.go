package net

// Cipher is the rolling-XOR stream cipher the client speaks. The 9-byte
// key is derived from the session seed sent in the plaintext init
// packet; encrypt and decrypt are the same operation. The opcode byte
// stays in the clear so dispatch can peek at it.
type Cipher struct {
	key [9]byte
}

func NewCipher(seed int32) *Cipher {
	c := &Cipher{}
	s := uint32(seed)
	for i := range c.key {
		s = s*0x343FD + 0x269EC3 // MS LCG step
		c.key[i] = byte(s >> 16)
	}
	return c
}

// Apply XORs the payload in place, skipping the opcode byte.
func (c *Cipher) Apply(data []byte) {
	for i := 1; i < len(data); i++ {
		data[i] ^= c.key[(i-1)%len(c.key)]
	}
}
