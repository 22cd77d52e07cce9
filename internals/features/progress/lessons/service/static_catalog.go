package service

import (
	"context"
)

// StaticCatalog is an in-memory Catalog in catalog order.
type StaticCatalog []ChapterRef

func (c StaticCatalog) Locate(_ context.Context, chapterID string) (*ChapterRef, error) {
	for i := range c {
		if c[i].ChapterID == chapterID {
			ref := c[i]
			ref.Index = i
			return &ref, nil
		}
	}
	return nil, ErrChapterNotFound
}

func (c StaticCatalog) All(context.Context) ([]ChapterRef, error) {
	out := make([]ChapterRef, len(c))
	for i := range c {
		out[i] = c[i]
		out[i].Index = i
	}
	return out, nil
}
