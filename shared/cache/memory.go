package cache

import (
	"container/list"
	"strings"
	"sync"
)

// memoryTier is the bounded in-memory accelerator in front of the persistent
// store. It is capped by entry count and aggregate payload bytes; when either
// ceiling is hit, entries are evicted least-recently-used first.
type memoryTier struct {
	mu         sync.Mutex
	maxEntries int
	maxBytes   int64
	bytes      int64
	order      *list.List
	items      map[string]*list.Element
}

type memoryItem struct {
	key   string
	entry Entry
}

func newMemoryTier(maxEntries int, maxBytes int64) *memoryTier {
	return &memoryTier{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

func (tier *memoryTier) get(key string) (Entry, bool) {
	tier.mu.Lock()
	defer tier.mu.Unlock()

	element, ok := tier.items[key]
	if !ok {
		return Entry{}, false
	}

	tier.order.MoveToFront(element)

	item, _ := element.Value.(*memoryItem)

	return item.entry, true
}

func (tier *memoryTier) set(key string, entry Entry) {
	tier.mu.Lock()
	defer tier.mu.Unlock()

	if element, ok := tier.items[key]; ok {
		item, _ := element.Value.(*memoryItem)
		tier.bytes += int64(entry.size() - item.entry.size())
		item.entry = entry
		tier.order.MoveToFront(element)
	} else {
		element = tier.order.PushFront(&memoryItem{key: key, entry: entry})
		tier.items[key] = element
		tier.bytes += int64(entry.size())
	}

	for tier.order.Len() > tier.maxEntries || tier.bytes > tier.maxBytes {
		oldest := tier.order.Back()
		if oldest == nil {
			break
		}

		tier.remove(oldest)
	}
}

func (tier *memoryTier) delete(key string) {
	tier.mu.Lock()
	defer tier.mu.Unlock()

	if element, ok := tier.items[key]; ok {
		tier.remove(element)
	}
}

func (tier *memoryTier) clear(prefix string) {
	tier.mu.Lock()
	defer tier.mu.Unlock()

	for key, element := range tier.items {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			tier.remove(element)
		}
	}
}

func (tier *memoryTier) len() int {
	tier.mu.Lock()
	defer tier.mu.Unlock()

	return tier.order.Len()
}

// remove expects tier.mu to be held.
func (tier *memoryTier) remove(element *list.Element) {
	item, _ := element.Value.(*memoryItem)

	tier.order.Remove(element)
	delete(tier.items, item.key)
	tier.bytes -= int64(item.entry.size())
}
