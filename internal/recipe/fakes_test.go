package recipe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jonathan/recipe-keeper/internal/fetch"
	"github.com/jonathan/recipe-keeper/internal/llm"
	"github.com/jonathan/recipe-keeper/internal/types"
	"github.com/jonathan/recipe-keeper/internal/youtube"
)

type fakeVideo struct {
	details *youtube.VideoDetails
	err     error
	calls   atomic.Int32
	lastID  string
}

func (f *fakeVideo) Fetch(_ context.Context, videoID string) (*youtube.VideoDetails, error) {
	f.calls.Add(1)
	f.lastID = videoID
	return f.details, f.err
}

type fakeEmbed struct {
	info    *youtube.EmbedInfo
	err     error
	calls   atomic.Int32
	lastURL string
}

func (f *fakeEmbed) Fetch(_ context.Context, videoURL string) (*youtube.EmbedInfo, error) {
	f.calls.Add(1)
	f.lastURL = videoURL
	return f.info, f.err
}

// fakeWeb serves both the page and the metadata scrape. Its methods run
// concurrently.
type fakeWeb struct {
	html     string
	pageErr  error
	og       *fetch.OpenGraph
	ogErr    error
	barrier  func() error
	mu       sync.Mutex
	pageURLs []string
	ogURLs   []string
}

func (f *fakeWeb) Page(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	f.pageURLs = append(f.pageURLs, url)
	f.mu.Unlock()
	if f.barrier != nil {
		if err := f.barrier(); err != nil {
			return "", err
		}
	}
	return f.html, f.pageErr
}

func (f *fakeWeb) OpenGraph(_ context.Context, url string) (*fetch.OpenGraph, error) {
	f.mu.Lock()
	f.ogURLs = append(f.ogURLs, url)
	f.mu.Unlock()
	if f.barrier != nil {
		if err := f.barrier(); err != nil {
			return nil, err
		}
	}
	return f.og, f.ogErr
}

func (f *fakeWeb) pageCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pageURLs)
}

type llmCall struct {
	source llm.Source
	text   string
}

type fakeModel struct {
	fields *types.RecipeFields
	err    error
	mu     sync.Mutex
	calls  []llmCall
}

func (f *fakeModel) Extract(_ context.Context, source llm.Source, text string) (*types.RecipeFields, error) {
	f.mu.Lock()
	f.calls = append(f.calls, llmCall{source: source, text: text})
	f.mu.Unlock()
	return f.fields, f.err
}
