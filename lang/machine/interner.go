package machine

// interner is a hand-rolled open-addressing hash set of *ObjString, used
// solely to deduplicate string contents as they are produced by the
// scanner, string concatenation and string constants. It is deliberately
// not built on swiss.Map: the whole point of interning is to look a string
// up by its raw bytes and hash *before* deciding whether an ObjString needs
// to be allocated for it, and a generic map keyed by *ObjString can't do
// that lookup without already having the key it's trying to avoid
// allocating. This mirrors the source implementation's table.c, which
// implements the same find-without-allocating probe for the same reason.
type interner struct {
	entries []internEntry
	count   int // live entries, not counting tombstones
}

type internEntry struct {
	key *ObjString // nil means never used; tombstone is key == tombstoneKey
}

// tombstoneKey marks a deleted slot that must still be treated as occupied
// by probing (so later entries sharing its bucket remain reachable) but as
// empty for capacity accounting.
var tombstoneKey = &ObjString{}

const internerMaxLoad = 0.75

func newInterner() *interner {
	return &interner{entries: make([]internEntry, 8)}
}

func fnv1a(s string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}

// find returns the ObjString already interned for chars, or nil if none
// exists yet. It never allocates.
func (in *interner) find(chars string, hash uint32) *ObjString {
	if len(in.entries) == 0 {
		return nil
	}
	mask := uint32(len(in.entries) - 1)
	index := hash & mask
	for {
		e := &in.entries[index]
		switch {
		case e.key == nil:
			return nil
		case e.key != tombstoneKey && e.key.Hash == hash && e.key.Chars == chars:
			return e.key
		}
		index = (index + 1) & mask
	}
}

// add inserts s, which must not already be present (callers always call
// find first). It grows the table when the load factor would exceed
// internerMaxLoad.
func (in *interner) add(s *ObjString) {
	if float64(in.count+1) > float64(len(in.entries))*internerMaxLoad {
		in.grow()
	}
	in.insert(in.entries, s)
	in.count++
}

// delete removes s's entry, replacing it with a tombstone so that later
// entries that probed past it during insertion remain reachable.
func (in *interner) delete(s *ObjString) {
	mask := uint32(len(in.entries) - 1)
	index := s.Hash & mask
	for {
		e := &in.entries[index]
		if e.key == nil {
			return
		}
		if e.key == s {
			e.key = tombstoneKey
			in.count--
			return
		}
		index = (index + 1) & mask
	}
}

func (in *interner) grow() {
	newEntries := make([]internEntry, len(in.entries)*2)
	count := 0
	for _, e := range in.entries {
		if e.key == nil || e.key == tombstoneKey {
			continue
		}
		in.insert(newEntries, e.key)
		count++
	}
	in.entries = newEntries
	in.count = count
}

func (in *interner) insert(entries []internEntry, s *ObjString) {
	mask := uint32(len(entries) - 1)
	index := s.Hash & mask
	var firstTombstone = -1
	for {
		e := &entries[index]
		if e.key == nil {
			if firstTombstone != -1 {
				entries[firstTombstone].key = s
			} else {
				e.key = s
			}
			return
		}
		if e.key == tombstoneKey && firstTombstone == -1 {
			firstTombstone = int(index)
		}
		index = (index + 1) & mask
	}
}

// removeWhiteTombstones is called by the collector between the mark and
// sweep phases: any interned string that didn't get marked is about to be
// swept, so its entry must become a tombstone now or later probes would
// read freed memory's hash and stop early at a reused slot. Go's GC makes
// the "freed memory" concern moot, but string interning correctness still
// requires the entry to be removed before the next find/add cycle sees a
// dangling live-looking key whose object no longer exists in Obj.Next.
func (in *interner) removeWhiteTombstones() {
	for i := range in.entries {
		e := &in.entries[i]
		if e.key != nil && e.key != tombstoneKey && !e.key.Marked {
			e.key = tombstoneKey
			in.count--
		}
	}
}
