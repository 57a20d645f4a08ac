package control

import "strings"

// keyChars is the alphabet accepted by the move entry buffer.
const keyChars = "PNBRQKMFSOox12345678abcdefgh-@="

// TypeRune appends r to the move entry buffer. Characters that cannot
// appear in move text are ignored.
func (c *Controller) TypeRune(r rune) bool {
	if r > 0x7f || !strings.ContainsRune(keyChars, r) {
		return false
	}
	c.keys = append(c.keys, byte(r))
	return true
}

// Backspace removes the last buffered character.
func (c *Controller) Backspace() {
	if len(c.keys) > 0 {
		c.keys = c.keys[:len(c.keys)-1]
	}
}

// Buffer returns the move entry buffer.
func (c *Controller) Buffer() string {
	return string(c.keys)
}

// Enter parses the buffer as a move on the shown board and plays it like
// a pointer move. The buffer is cleared whether or not the text parsed.
func (c *Controller) Enter() {
	if len(c.keys) == 0 {
		return
	}
	text := string(c.keys)
	c.keys = c.keys[:0]

	b := c.board()
	if b == nil {
		return
	}
	m, err := c.rules.Parse(b, text)
	if err != nil {
		c.log.Debug().Err(err).Str("text", text).Msg("move entry")
		return
	}
	if !c.rules.Validate(b, m) {
		return
	}
	c.dispatch(b, m)
}
