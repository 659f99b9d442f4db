package utils

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SixID is a 6-byte identifier stored in MongoDB as BinData with custom
// subtype 0x80 and rendered as 10 characters of Crockford Base32.
type SixID [6]byte

// sixIDBinarySubtype is the custom BSON binary subtype used for SixIDs.
const sixIDBinarySubtype = 0x80

// SixIDHookFunc is the signature of the NewSixID test hook. It returns an ID
// and whether to override the default random generation.
type SixIDHookFunc func() (id SixID, override bool)

// NewSixIDHook can be set by tests to make generated IDs deterministic.
var NewSixIDHook SixIDHookFunc

// NewSixID returns a new random SixID.
func NewSixID() SixID {
	if NewSixIDHook != nil {
		if id, override := NewSixIDHook(); override {
			return id
		}
	}
	var id SixID
	if _, err := rand.Read(id[:]); err != nil {
		// crypto/rand failing is unrecoverable; a zero ID is at least visible.
		return SixID{}
	}
	return id
}

// IsZero reports whether the ID is the zero value.
func (u SixID) IsZero() bool {
	return u == SixID{}
}

const crockfordAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var crockfordValues [256]int8

func init() {
	for i := range crockfordValues {
		crockfordValues[i] = -1
	}
	for i := 0; i < len(crockfordAlphabet); i++ {
		c := crockfordAlphabet[i]
		crockfordValues[c] = int8(i)
		if c >= 'A' && c <= 'Z' {
			crockfordValues[c+'a'-'A'] = int8(i)
		}
	}
	// Crockford's aliases for easily confused characters.
	crockfordValues['o'], crockfordValues['O'] = 0, 0
	crockfordValues['i'], crockfordValues['I'] = 1, 1
	crockfordValues['l'], crockfordValues['L'] = 1, 1
}

// String encodes the 48 bits of the ID as 10 Crockford Base32 characters.
func (u SixID) String() string {
	var out [10]byte
	var acc uint64
	var nbits uint
	pos := 0
	for _, b := range u {
		acc |= uint64(b) << nbits
		nbits += 8
		for nbits >= 5 {
			out[pos] = crockfordAlphabet[acc&0x1F]
			pos++
			acc >>= 5
			nbits -= 5
		}
	}
	if nbits > 0 {
		out[pos] = crockfordAlphabet[acc&0x1F]
		pos++
	}
	return string(out[:pos])
}

// ParseSixID decodes a Crockford Base32 string into a SixID. Hyphens and
// spaces are ignored for leniency.
func ParseSixID(s string) (SixID, error) {
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	if len(s) != 10 {
		return SixID{}, errors.New("sixid: string must be 10 characters")
	}

	var id SixID
	var acc uint64
	var nbits uint
	pos := 0
	for i := 0; i < len(s); i++ {
		v := crockfordValues[s[i]]
		if v < 0 {
			return SixID{}, errors.New("sixid: invalid Crockford Base32 character")
		}
		acc |= uint64(v) << nbits
		nbits += 5
		for nbits >= 8 && pos < len(id) {
			id[pos] = byte(acc & 0xFF)
			pos++
			acc >>= 8
			nbits -= 8
		}
	}
	if pos != len(id) {
		return SixID{}, errors.New("sixid: could not decode 6 bytes")
	}
	return id, nil
}

// MarshalBSONValue implements bson.ValueMarshaler, encoding the ID as BinData
// with the custom subtype.
func (u SixID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(primitive.Binary{Subtype: sixIDBinarySubtype, Data: u[:]})
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (u *SixID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bson.TypeNull {
		*u = SixID{}
		return nil
	}
	raw := bson.RawValue{Type: t, Value: data}
	var bin primitive.Binary
	if err := raw.Unmarshal(&bin); err != nil {
		return errors.New("sixid: expected BSON binary value")
	}
	if bin.Subtype != sixIDBinarySubtype || len(bin.Data) != len(*u) {
		return errors.New("sixid: BSON binary has wrong subtype or length")
	}
	copy(u[:], bin.Data)
	return nil
}

// MarshalJSON renders the ID as its Crockford Base32 string.
func (u SixID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON parses the ID from its Crockford Base32 string.
func (u *SixID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := ParseSixID(s)
	if err != nil {
		return err
	}
	*u = id
	return nil
}
