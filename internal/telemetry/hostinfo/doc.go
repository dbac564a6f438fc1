// Package hostinfo reads operating system and process facts.
//
// It is a thin layer over gopsutil that returns plain values and a
// sentinel error for measurements the current platform cannot provide:
//
//   - system.go: CPU, virtual memory, disk, load average, uptime
//   - process.go: CPU, resident memory, open descriptors, threads
//
// Readers are safe for concurrent use.
package hostinfo
