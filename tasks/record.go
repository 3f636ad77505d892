package tasks

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/calvinmclean/autofeeder"
)

const (
	entrySize    = 3
	checksumSize = 4

	// RecordSize is the number of bytes the table occupies in the store
	RecordSize = autofeeder.MaxTasks*entrySize + checksumSize
)

// ErrCorrupt is returned when a stored record fails its checksum. This is expected on a blank
// EEPROM or after a write was interrupted
var ErrCorrupt = errors.New("task record checksum mismatch")

// Marshal encodes the tasks as [hour, minute, executed] entries followed by a CRC-32 of the entries
func Marshal(tasks [autofeeder.MaxTasks]Task) []byte {
	buf := make([]byte, RecordSize)
	for i, t := range tasks {
		off := i * entrySize
		buf[off] = t.Time.Hour
		buf[off+1] = t.Time.Minute
		if t.Executed {
			buf[off+2] = 1
		}
	}

	body := buf[:RecordSize-checksumSize]
	binary.LittleEndian.PutUint32(buf[len(body):], crc32.ChecksumIEEE(body))
	return buf
}

// Unmarshal decodes a record produced by Marshal
func Unmarshal(buf []byte) ([autofeeder.MaxTasks]Task, error) {
	var tasks [autofeeder.MaxTasks]Task
	if len(buf) != RecordSize {
		return tasks, ErrCorrupt
	}

	body := buf[:RecordSize-checksumSize]
	if binary.LittleEndian.Uint32(buf[len(body):]) != crc32.ChecksumIEEE(body) {
		return tasks, ErrCorrupt
	}

	for i := range tasks {
		off := i * entrySize
		tasks[i] = Task{
			Time:     autofeeder.TimeOfDay{Hour: body[off], Minute: body[off+1]},
			Executed: body[off+2] != 0,
		}
	}
	return tasks, nil
}
