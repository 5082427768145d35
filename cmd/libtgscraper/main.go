// Package main builds the engine as a C shared library.
//
// Build with:
//
//	go build -buildmode=c-shared -o libtgscraper.so ./cmd/libtgscraper
//
// Hosts obtain an opaque handle from tg_scraper_init, drive the engine
// through tg_scraper_connect and tg_scraper_scrape, and release resources
// with tg_scraper_free_members and tg_scraper_destroy. Every function
// returns 1 on success and 0 on failure; tg_scraper_last_error reports a
// stable error code for the most recent operation on a handle.
package main

/*
#include "boundary.h"
*/
import "C"

import (
	"sync"
	"unsafe"

	"tgscraper/pkg/bridge"
	"tgscraper/pkg/logger"
	"tgscraper/pkg/models"
)

const (
	resultOK   = C.int(1)
	resultFail = C.int(0)
)

// handleTable maps opaque uint64 handles to live bridge instances. Handles
// are never reused within a process, so a stale handle fails instead of
// silently hitting another host's instance.
type handleTable struct {
	mu      sync.Mutex
	next    uint64
	bridges map[uint64]*bridge.Bridge
}

var handles = handleTable{
	next:    1,
	bridges: make(map[uint64]*bridge.Bridge),
}

func (t *handleTable) add(b *bridge.Bridge) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.next
	t.next++
	t.bridges[h] = b
	return h
}

func (t *handleTable) get(h uint64) *bridge.Bridge {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bridges[h]
}

func (t *handleTable) remove(h uint64) *bridge.Bridge {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.bridges[h]
	delete(t.bridges, h)
	return b
}

// allocTable tracks every member array handed to the host so that
// tg_scraper_free_members can detect a double free or a pointer the
// library never allocated.
type allocTable struct {
	mu     sync.Mutex
	counts map[uintptr]int
}

var allocs = allocTable{counts: make(map[uintptr]int)}

func (t *allocTable) add(p unsafe.Pointer, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[uintptr(p)] = n
}

// take removes a registered allocation and returns its element count.
// The second result is false when the pointer is unknown.
func (t *allocTable) take(p unsafe.Pointer) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.counts[uintptr(p)]
	if ok {
		delete(t.counts, uintptr(p))
	}
	return n, ok
}

//export tg_scraper_init
func tg_scraper_init() C.uint64_t {
	log := logger.GetLogger()
	b := bridge.New(log)
	h := handles.add(b)
	log.WithField("handle", h).Info("scraper instance created")
	return C.uint64_t(h)
}

//export tg_scraper_connect
func tg_scraper_connect(handle C.uint64_t, apiID C.int64_t, apiHash, sessionFile *C.char) C.int {
	b := handles.get(uint64(handle))
	if b == nil {
		return resultFail
	}
	if apiHash == nil || sessionFile == nil {
		return resultFail
	}
	if err := b.Connect(int(apiID), C.GoString(apiHash), C.GoString(sessionFile)); err != nil {
		return resultFail
	}
	return resultOK
}

//export tg_scraper_scrape
func tg_scraper_scrape(handle C.uint64_t, target *C.char, maxMembers C.int64_t, outMembers **C.tg_member, outCount *C.size_t) C.int {
	b := handles.get(uint64(handle))
	if b == nil {
		return resultFail
	}
	if target == nil || outMembers == nil || outCount == nil {
		return resultFail
	}

	members, err := b.Scrape(C.GoString(target), int(maxMembers))
	if err != nil {
		return resultFail
	}

	arr, n, ok := marshalMembers(members)
	if !ok {
		logger.GetLogger().Error("member array allocation failed")
		return resultFail
	}
	*outMembers = arr
	*outCount = C.size_t(n)
	return resultOK
}

//export tg_scraper_free_members
func tg_scraper_free_members(members *C.tg_member, count C.size_t) C.int {
	if members == nil {
		return resultOK
	}

	n, ok := allocs.take(unsafe.Pointer(members))
	if !ok {
		// Already freed or never allocated by this library. Freeing it
		// anyway would corrupt the heap, so refuse.
		logger.GetLogger().WithField("ptr", uintptr(unsafe.Pointer(members))).
			Error("free of unknown or already-freed member array")
		return resultFail
	}
	if int(count) != n {
		logger.GetLogger().WithFields(map[string]interface{}{
			"expected": n,
			"got":      int(count),
		}).Warn("member count mismatch on free; using recorded count")
	}

	records := unsafe.Slice(members, n)
	for i := range records {
		freeCString(records[i].username)
		freeCString(records[i].first_name)
		freeCString(records[i].last_name)
		freeCString(records[i].phone)
	}
	C.free(unsafe.Pointer(members))
	return resultOK
}

//export tg_scraper_last_error
func tg_scraper_last_error(handle C.uint64_t) C.int {
	b := handles.get(uint64(handle))
	if b == nil {
		return C.TG_ERR_STATE
	}
	return C.int(b.LastErrorCode())
}

//export tg_scraper_destroy
func tg_scraper_destroy(handle C.uint64_t) C.int {
	b := handles.remove(uint64(handle))
	if b == nil {
		return resultFail
	}
	b.Destroy()
	logger.GetLogger().WithField("handle", uint64(handle)).Info("scraper instance destroyed")
	return resultOK
}

// marshalMembers copies records into one contiguous C array. Strings are
// allocated individually; a nil pointer field becomes a NULL char*. The
// third result is false when the array allocation fails.
func marshalMembers(members []models.Member) (*C.tg_member, int, bool) {
	n := len(members)
	if n == 0 {
		return nil, 0, true
	}

	size := C.size_t(n) * C.size_t(unsafe.Sizeof(C.tg_member{}))
	p := C.malloc(size)
	if p == nil {
		return nil, 0, false
	}
	arr := (*C.tg_member)(p)
	records := unsafe.Slice(arr, n)

	for i, m := range members {
		records[i] = C.tg_member{
			id:          C.int64_t(m.ID),
			username:    cStringOrNull(m.Username),
			first_name:  cStringOrNull(m.FirstName),
			last_name:   cStringOrNull(m.LastName),
			phone:       cStringOrNull(m.Phone),
			is_premium:  C.bool(m.IsPremium),
			last_online: C.int64_t(m.LastOnline),
		}
	}

	allocs.add(unsafe.Pointer(arr), n)
	return arr, n, true
}

func cStringOrNull(s *string) *C.char {
	if s == nil {
		return nil
	}
	return C.CString(*s)
}

func freeCString(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func main() {}
