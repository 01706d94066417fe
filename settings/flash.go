package settings

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

// BlockDevice is the flash interface exposed by TinyGo's machine.Flash
type BlockDevice interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	WriteBlockSize() int64
	EraseBlockSize() int64
	EraseBlocks(start, length int64) error
}

const (
	flashMagic      = "CBS1"
	flashHeaderSize = 16 // magic(4) | seq(4) | length(2) | reserved(2) | crc32(4)
	flashSlots      = 2
)

// FlashStore keeps the settings record in two alternating erase blocks. Every save goes to
// the slot that doesn't hold the newest record, so interrupting a save leaves the previous
// record readable
type FlashStore struct {
	dev BlockDevice
	// FirstBlock is the erase block index of slot 0. Slot 1 follows it
	FirstBlock int64
}

var _ Store = (*FlashStore)(nil)

func NewFlashStore(dev BlockDevice, firstBlock int64) *FlashStore {
	return &FlashStore{dev: dev, FirstBlock: firstBlock}
}

type flashSlot struct {
	index int
	valid bool
	seq   uint32
	data  []byte
}

// Load returns the newest valid record, or Defaults when neither slot holds one
func (f *FlashStore) Load() (Settings, error) {
	newest, ok := f.newest()
	if !ok {
		return Defaults(), nil
	}
	return Decode(newest.data)
}

// Save writes the record into the older slot with the next sequence number
func (f *FlashStore) Save(s Settings) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("error encoding settings: %w", err)
	}

	blockSize := f.dev.EraseBlockSize()
	if int64(len(data)+flashHeaderSize) > blockSize || len(data) > 0xFFFF {
		return errors.New("settings record does not fit in a flash block")
	}

	var seq uint32
	target := 0
	if newest, ok := f.newest(); ok {
		seq = newest.seq + 1
		target = (newest.index + 1) % flashSlots
	}

	record := make([]byte, flashHeaderSize+len(data))
	copy(record[0:4], flashMagic)
	binary.LittleEndian.PutUint32(record[4:8], seq)
	binary.LittleEndian.PutUint16(record[8:10], uint16(len(data)))
	binary.LittleEndian.PutUint32(record[12:16], crc32.ChecksumIEEE(data))
	copy(record[flashHeaderSize:], data)

	// writes must be a whole number of write blocks; erased flash reads back as 0xFF
	if wbs := f.dev.WriteBlockSize(); wbs > 1 {
		if rem := int64(len(record)) % wbs; rem != 0 {
			pad := make([]byte, wbs-rem)
			for i := range pad {
				pad[i] = 0xFF
			}
			record = append(record, pad...)
		}
	}

	block := f.FirstBlock + int64(target)
	err = f.dev.EraseBlocks(block, 1)
	if err != nil {
		return fmt.Errorf("error erasing settings slot %d: %w", target, err)
	}

	_, err = f.dev.WriteAt(record, block*blockSize)
	if err != nil {
		return fmt.Errorf("error writing settings slot %d: %w", target, err)
	}
	return nil
}

func (f *FlashStore) newest() (flashSlot, bool) {
	var best flashSlot
	found := false
	for i := 0; i < flashSlots; i++ {
		slot := f.readSlot(i)
		if !slot.valid {
			continue
		}
		// sequence numbers are compared with wraparound
		if !found || int32(slot.seq-best.seq) > 0 {
			best = slot
			found = true
		}
	}
	return best, found
}

func (f *FlashStore) readSlot(index int) flashSlot {
	slot := flashSlot{index: index}
	blockSize := f.dev.EraseBlockSize()
	off := (f.FirstBlock + int64(index)) * blockSize

	header := make([]byte, flashHeaderSize)
	_, err := f.dev.ReadAt(header, off)
	if err != nil || string(header[0:4]) != flashMagic {
		return slot
	}

	length := int64(binary.LittleEndian.Uint16(header[8:10]))
	if length == 0 || length+flashHeaderSize > blockSize {
		return slot
	}

	data := make([]byte, length)
	_, err = f.dev.ReadAt(data, off+flashHeaderSize)
	if err != nil || crc32.ChecksumIEEE(data) != binary.LittleEndian.Uint32(header[12:16]) {
		return slot
	}

	slot.valid = true
	slot.seq = binary.LittleEndian.Uint32(header[4:8])
	slot.data = data
	return slot
}
