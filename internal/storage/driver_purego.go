//go:build !cgo_sqlite

package storage

import (
	_ "modernc.org/sqlite"
)

const (
	driverName = "sqlite"
	driverType = "purego"
)
