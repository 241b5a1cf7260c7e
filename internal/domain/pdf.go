package domain

import "io"

// PDFFile is a downloaded PDF scoped to one request. Close releases it.
type PDFFile interface {
	io.ReaderAt
	Size() int64
	Close() error
}
