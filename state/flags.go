package state

import (
	"sort"
	"sync"
	"sync/atomic"
)

type flagSnapshot struct {
	blockedUsers map[int64]struct{}
	flaggedPosts map[int64]struct{}
}

// Flags are moderation marks that exist only in this process: users blocked in the UI and
// posts flagged for admin attention. Readers load an immutable snapshot; writers replace it.
type Flags struct {
	wmu  sync.Mutex
	snap atomic.Pointer[flagSnapshot]
}

func NewFlags() *Flags {
	f := &Flags{}
	f.snap.Store(&flagSnapshot{blockedUsers: map[int64]struct{}{}, flaggedPosts: map[int64]struct{}{}})
	return f
}

func (f *Flags) update(fn func(next *flagSnapshot)) {
	f.wmu.Lock()
	defer f.wmu.Unlock()
	cur := f.snap.Load()
	next := &flagSnapshot{
		blockedUsers: make(map[int64]struct{}, len(cur.blockedUsers)+1),
		flaggedPosts: make(map[int64]struct{}, len(cur.flaggedPosts)+1),
	}
	for id := range cur.blockedUsers {
		next.blockedUsers[id] = struct{}{}
	}
	for id := range cur.flaggedPosts {
		next.flaggedPosts[id] = struct{}{}
	}
	fn(next)
	f.snap.Store(next)
}

func (f *Flags) BlockUser(id int64) {
	f.update(func(n *flagSnapshot) { n.blockedUsers[id] = struct{}{} })
}

func (f *Flags) UnblockUser(id int64) {
	f.update(func(n *flagSnapshot) { delete(n.blockedUsers, id) })
}

func (f *Flags) IsUserBlocked(id int64) bool {
	_, ok := f.snap.Load().blockedUsers[id]
	return ok
}

func (f *Flags) FlagPost(id int64) {
	f.update(func(n *flagSnapshot) { n.flaggedPosts[id] = struct{}{} })
}

func (f *Flags) UnflagPost(id int64) {
	f.update(func(n *flagSnapshot) { delete(n.flaggedPosts, id) })
}

func (f *Flags) IsPostFlagged(id int64) bool {
	_, ok := f.snap.Load().flaggedPosts[id]
	return ok
}

// BlockedUsers lists the UI-blocked user ids in ascending order.
func (f *Flags) BlockedUsers() []int64 {
	return sortedKeys(f.snap.Load().blockedUsers)
}

// FlaggedPosts lists the flagged post ids in ascending order.
func (f *Flags) FlaggedPosts() []int64 {
	return sortedKeys(f.snap.Load().flaggedPosts)
}

func sortedKeys(m map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
