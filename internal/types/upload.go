package types

import "io"

// Upload is a file received with a request, already opened by the handler.
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}
