// Package mmap provides read-only memory-mapped file access.
//
// Dataset files are read front to back once per load, so mappings are
// usually opened with AccessSequential, which lets the kernel read ahead
// aggressively.
//
//	m, err := mmap.Open("sift_base.fvecs", mmap.AccessSequential)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// Unix uses mmap(2) and madvise(2); Windows uses CreateFileMapping and
// MapViewOfFile and ignores access hints. Other platforms read the file
// into memory.
package mmap
