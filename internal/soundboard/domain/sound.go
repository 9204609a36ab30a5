package domain

import (
	"path/filepath"
	"strings"
)

// BaseSlots is the size of the base partition.
const BaseSlots = 9

// Partition identifies which display group a slot belongs to.
type Partition string

// Partitions.
const (
	PartitionBase   Partition = "base"
	PartitionCustom Partition = "custom"
)

// PartitionOf returns the partition of a zero-based slot index.
func PartitionOf(slot int) Partition {
	if slot < BaseSlots {
		return PartitionBase
	}
	return PartitionCustom
}

// Payload is the opaque audio blob of a sound.
type Payload struct {
	MIME string
	Data []byte
}

// Sound is a named payload.
type Sound struct {
	Name    string
	Payload Payload
}

// NameFromFilename returns the portion of the base filename before the first ".".
// "boom.mp3" becomes "boom", "air.horn.wav" becomes "air".
func NameFromFilename(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	name, _, _ := strings.Cut(base, ".")
	return name
}
