package composer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// IDGenerator produces component ids of the form "{type}-{suffix}".
// The codec re-derives the type from the id prefix, so generators must keep
// the type as the segment before the first '-'.
type IDGenerator interface {
	GenerateComponentID(kind string) string
}

type IDGeneratorFunc func(kind string) string

func (f IDGeneratorFunc) GenerateComponentID(kind string) string { return f(kind) }

// ClockIDs builds "{type}-{unixMillis}" ids. Two calls within the same
// millisecond collide; wrap it in UniqueIDs when that matters.
type ClockIDs struct {
	Now func() time.Time
}

func (g ClockIDs) GenerateComponentID(kind string) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return fmt.Sprintf("%s-%d", kind, now().UnixMilli())
}

// UniqueIDs remembers every id it has issued or been told about and bumps the
// numeric suffix on collision. Not safe for concurrent use.
type UniqueIDs struct {
	gen  IDGenerator
	used map[string]struct{}
}

func NewUniqueIDs(gen IDGenerator, existing ...string) *UniqueIDs {
	if gen == nil {
		gen = ClockIDs{}
	}
	u := &UniqueIDs{gen: gen, used: make(map[string]struct{}, len(existing))}
	for _, id := range existing {
		u.Reserve(id)
	}
	return u
}

func (u *UniqueIDs) Reserve(id string) {
	u.used[id] = struct{}{}
}

func (u *UniqueIDs) GenerateComponentID(kind string) string {
	id := u.gen.GenerateComponentID(kind)
	for {
		if _, taken := u.used[id]; !taken {
			break
		}
		id = bumpID(id)
	}
	u.used[id] = struct{}{}
	return id
}

func bumpID(id string) string {
	i := strings.LastIndexByte(id, '-')
	if i >= 0 {
		if n, err := strconv.ParseInt(id[i+1:], 10, 64); err == nil {
			return id[:i+1] + strconv.FormatInt(n+1, 10)
		}
	}
	return id + "-1"
}

// TypeFromID returns the component type encoded in an id: everything before
// the first '-', or the whole id when there is none.
func TypeFromID(id string) string {
	if i := strings.IndexByte(id, '-'); i >= 0 {
		return id[:i]
	}
	return id
}

var kindPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidKind reports whether kind can be used as an id prefix.
func ValidKind(kind string) bool {
	return kindPattern.MatchString(kind)
}

func checkID(item ComponentItem) error {
	id := item.ID
	if id == "" || strings.ContainsAny(id, ": \t\r\n") || strings.Contains(id, "-->") {
		return fmt.Errorf("%w: %q", ErrInvalidComponentID, id)
	}
	if TypeFromID(id) != item.Type {
		return fmt.Errorf("%w: %q does not start with type %q", ErrInvalidComponentID, id, item.Type)
	}
	return nil
}
