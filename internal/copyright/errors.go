package copyright

import (
	"errors"
	"fmt"
)

// ChapterCount is the number of manual chapters the backend generates.
const ChapterCount = 4

var (
	// ErrInvalidChapter is returned for chapter numbers outside 1..ChapterCount.
	ErrInvalidChapter = fmt.Errorf("chapter must be between 1 and %d", ChapterCount)
	// ErrNoStreamer is returned by streaming calls on an API built without one.
	ErrNoStreamer = errors.New("streaming fetcher not configured")
)
