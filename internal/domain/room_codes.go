package domain

import (
	"sort"
	"strings"
)

const MaxRoomCodeLength = 10

// RoomCodes is a sorted, de-duplicated set of room codes.
type RoomCodes []string

// ParseRoomLabel is the single boundary for the legacy room field: it splits
// on commas, trims each token and keeps only valid codes. A single code with
// no commas is a one-element set.
func ParseRoomLabel(label string) RoomCodes {
	if strings.TrimSpace(label) == "" {
		return nil
	}
	return NewRoomCodes(strings.Split(label, ",")...)
}

// NewRoomCodes normalizes individual codes into a set.
func NewRoomCodes(codes ...string) RoomCodes {
	seen := make(map[string]struct{}, len(codes))
	out := make(RoomCodes, 0, len(codes))
	for _, raw := range codes {
		code := strings.TrimSpace(raw)
		if !ValidRoomCode(code) {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// ValidRoomCode rejects empty tokens, tokens with inner whitespace and codes
// longer than the rooms.code column.
func ValidRoomCode(code string) bool {
	if code == "" || len(code) > MaxRoomCodeLength {
		return false
	}
	return !strings.ContainsAny(code, " \t\r\n")
}

func (c RoomCodes) Contains(code string) bool {
	i := sort.SearchStrings(c, code)
	return i < len(c) && c[i] == code
}

// Label renders the set in the legacy comma-separated form.
func (c RoomCodes) Label() string {
	return strings.Join(c, ", ")
}
