package tasks

import "strconv"

// StoreIOError is returned when the table could not be read from or written to the store.
// The in-memory table stays authoritative after a failed write
type StoreIOError struct {
	Op      string
	Address uint16
	Err     error
}

func (e *StoreIOError) Error() string {
	return "store " + e.Op + " at 0x" + strconv.FormatUint(uint64(e.Address), 16) + ": " + e.Err.Error()
}

func (e *StoreIOError) Unwrap() error {
	return e.Err
}
