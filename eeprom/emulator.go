package eeprom

import (
	"errors"
	"sync"

	"tinygo.org/x/drivers"
)

// DefaultEmulatorSize matches a 32Kbit part
const DefaultEmulatorSize = 4096

var (
	ErrWrongAddress = errors.New("no device at address")
	ErrNoAddress    = errors.New("transfer is missing the memory address")
)

// Emulator behaves like an AT24Cxx on an I2C bus. Page writes roll over inside the page, and
// sequential reads roll over at the end of memory
type Emulator struct {
	address  uint16
	pageSize int

	mtx     sync.Mutex
	mem     []byte
	pointer int

	// Transfers records the length of the data part of every write transfer
	Transfers []int

	// OnWrite is called with a copy of memory after every write
	OnWrite func([]byte)
}

var _ drivers.I2C = &Emulator{}

// NewEmulator creates an erased (0xFF) memory of the given size
func NewEmulator(size int) *Emulator {
	if size <= 0 {
		size = DefaultEmulatorSize
	}

	e := &Emulator{
		address:  DefaultAddress,
		pageSize: DefaultPageSize,
		mem:      make([]byte, size),
	}
	for i := range e.mem {
		e.mem[i] = 0xFF
	}
	return e
}

// Load replaces the start of memory with data
func (e *Emulator) Load(data []byte) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	copy(e.mem, data)
}

// Bytes returns a copy of memory
func (e *Emulator) Bytes() []byte {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return append([]byte{}, e.mem...)
}

// Tx implements drivers.I2C
func (e *Emulator) Tx(addr uint16, w, r []byte) error {
	if addr != e.address {
		return ErrWrongAddress
	}
	if len(w) == 1 {
		return ErrNoAddress
	}

	e.mtx.Lock()

	var written []byte
	if len(w) >= 2 {
		e.pointer = (int(w[0])<<8 | int(w[1])) % len(e.mem)

		if data := w[2:]; len(data) > 0 {
			e.write(data)
			e.Transfers = append(e.Transfers, len(data))
			written = append([]byte{}, e.mem...)
		}
	}

	for i := range r {
		r[i] = e.mem[e.pointer]
		e.pointer = (e.pointer + 1) % len(e.mem)
	}

	e.mtx.Unlock()

	if written != nil && e.OnWrite != nil {
		e.OnWrite(written)
	}
	return nil
}

func (e *Emulator) write(data []byte) {
	pageStart := e.pointer - e.pointer%e.pageSize
	offset := e.pointer - pageStart
	for _, b := range data {
		e.mem[pageStart+offset] = b
		offset = (offset + 1) % e.pageSize
	}
	e.pointer = pageStart + offset
}
