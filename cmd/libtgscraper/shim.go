package main

/*
#include "boundary.h"
*/
import "C"

import "unsafe"

// Go-typed shims over the exported boundary functions. Test files cannot
// use cgo, so the boundary tests drive the C surface through these.

// boundaryMember is a Go-side readback of one tg_member record
type boundaryMember struct {
	ID         int64
	Username   *string
	FirstName  *string
	LastName   *string
	Phone      *string
	IsPremium  bool
	LastOnline int64
}

func initScraper() uint64 {
	return uint64(tg_scraper_init())
}

func connectScraper(handle uint64, apiID int, apiHash, sessionFile string) int {
	cHash := C.CString(apiHash)
	defer C.free(unsafe.Pointer(cHash))
	cSession := C.CString(sessionFile)
	defer C.free(unsafe.Pointer(cSession))
	return int(tg_scraper_connect(C.uint64_t(handle), C.int64_t(apiID), cHash, cSession))
}

func scrapeMembers(handle uint64, target string, maxMembers int) (unsafe.Pointer, int, int) {
	cTarget := C.CString(target)
	defer C.free(unsafe.Pointer(cTarget))

	var out *C.tg_member
	var count C.size_t
	rc := tg_scraper_scrape(C.uint64_t(handle), cTarget, C.int64_t(maxMembers), &out, &count)
	return unsafe.Pointer(out), int(count), int(rc)
}

func freeMembers(ptr unsafe.Pointer, count int) int {
	return int(tg_scraper_free_members((*C.tg_member)(ptr), C.size_t(count)))
}

func lastErrorCode(handle uint64) int {
	return int(tg_scraper_last_error(C.uint64_t(handle)))
}

func destroyScraper(handle uint64) int {
	return int(tg_scraper_destroy(C.uint64_t(handle)))
}

// memberAt reads record i of a boundary-owned array back into Go values
func memberAt(ptr unsafe.Pointer, count, i int) boundaryMember {
	records := unsafe.Slice((*C.tg_member)(ptr), count)
	m := records[i]
	return boundaryMember{
		ID:         int64(m.id),
		Username:   goStringOrNil(m.username),
		FirstName:  goStringOrNil(m.first_name),
		LastName:   goStringOrNil(m.last_name),
		Phone:      goStringOrNil(m.phone),
		IsPremium:  bool(m.is_premium),
		LastOnline: int64(m.last_online),
	}
}

func goStringOrNil(s *C.char) *string {
	if s == nil {
		return nil
	}
	v := C.GoString(s)
	return &v
}
