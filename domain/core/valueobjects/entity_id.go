package valueobjects

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// PebbleID is a value object representing a unique pebble identifier
// Value objects are immutable and have no identity beyond their value
type PebbleID struct {
	value string
}

// NewPebbleID creates a new random PebbleID
func NewPebbleID() PebbleID {
	return PebbleID{value: uuid.New().String()}
}

// NewPebbleIDFromString creates a PebbleID from an existing string
func NewPebbleIDFromString(id string) (PebbleID, error) {
	if id == "" {
		return PebbleID{}, errors.New("pebble ID cannot be empty")
	}
	return PebbleID{value: id}, nil
}

// String returns the string representation of the PebbleID
func (id PebbleID) String() string {
	return id.value
}

// Equals checks if two PebbleIDs are equal
func (id PebbleID) Equals(other PebbleID) bool {
	return id.value == other.value
}

// IsZero checks if the PebbleID is the zero value
func (id PebbleID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id PebbleID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *PebbleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("PebbleID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// tempFolderPrefix marks client-assigned folder IDs awaiting a server ID.
const tempFolderPrefix = "temp-"

// FolderID is a value object representing a unique folder identifier.
// A folder ID may be provisional: the client assigns a temp- prefixed ID
// optimistically and swaps it for the server-assigned one on confirmation.
type FolderID struct {
	value string
}

// NewFolderID creates a new random server-side FolderID
func NewFolderID() FolderID {
	return FolderID{value: uuid.New().String()}
}

// NewTempFolderID creates a provisional client-side FolderID
func NewTempFolderID() FolderID {
	return FolderID{value: tempFolderPrefix + uuid.New().String()}
}

// NewFolderIDFromString creates a FolderID from an existing string
func NewFolderIDFromString(id string) (FolderID, error) {
	if id == "" {
		return FolderID{}, errors.New("folder ID cannot be empty")
	}
	return FolderID{value: id}, nil
}

// String returns the string representation of the FolderID
func (id FolderID) String() string {
	return id.value
}

// Equals checks if two FolderIDs are equal
func (id FolderID) Equals(other FolderID) bool {
	return id.value == other.value
}

// IsZero checks if the FolderID is the zero value
func (id FolderID) IsZero() bool {
	return id.value == ""
}

// IsTemp reports whether this is a provisional client-assigned ID
func (id FolderID) IsTemp() bool {
	return strings.HasPrefix(id.value, tempFolderPrefix)
}

// MarshalJSON implements json.Marshaler
func (id FolderID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *FolderID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("FolderID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
