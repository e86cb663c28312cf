package domain

// Directory maps stock locate codes to ticker symbols for the session.
type Directory struct {
	symbols map[uint16]string
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{symbols: make(map[uint16]string)}
}

// Upsert binds locate to symbol, replacing any earlier binding.
func (d *Directory) Upsert(locate uint16, symbol string) {
	d.symbols[locate] = symbol
}

// Symbol returns the symbol bound to locate.
func (d *Directory) Symbol(locate uint16) (string, bool) {
	s, ok := d.symbols[locate]
	return s, ok
}

// Len returns the number of known instruments.
func (d *Directory) Len() int {
	return len(d.symbols)
}
