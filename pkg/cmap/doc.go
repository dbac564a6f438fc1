// Package cmap provides a concurrent-safe map sharded by key hash.
//
// Keys are strings; the shard is picked with murmur3. Each shard has its
// own RWMutex, so writers on different shards do not contend.
//
//	m := cmap.New[*entry]()
//	e, _ := m.GetOrCreate(ip, newEntry)
//	m.DeleteFunc(func(_ string, e *entry) bool { return e.idle(now) })
package cmap
