package export

import (
	"bytes"
	"sync"
)

// bufferPool holds buffers reused across ToSQL calls. String copies, so a
// returned script never aliases a pooled buffer.
var bufferPool = sync.Pool{
	New: func() any {
		b := new(bytes.Buffer)
		b.Grow(16 * 1024)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(b *bytes.Buffer) {
	b.Reset()
	bufferPool.Put(b)
}
