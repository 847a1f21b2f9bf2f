package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outline-cli/internal/adapters/driven/engine/memory"
	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
)

func twoByTwoSeeds() []domain.OutlineSeed {
	return []domain.OutlineSeed{
		{Name: "R0", Children: []domain.OutlineSeed{{Name: "R0a"}, {Name: "R0b"}}},
		{Name: "R1", Children: []domain.OutlineSeed{{Name: "R1a"}, {Name: "R1b"}}},
	}
}

func TestBookmarkService_AssignsLevelOrderPaths(t *testing.T) {
	engine := memory.NewEngine(memory.WithSeeds(twoByTwoSeeds()))

	var mu sync.Mutex
	var order []string
	engine.SetReadHook(func(op string) {
		if op == "haschildren" {
			mu.Lock()
			order = append(order, op)
			mu.Unlock()
		}
	})

	m, err := NewBookmarkService().Flatten(context.Background(), engine)

	require.NoError(t, err)
	assert.Len(t, m, 6)
	for _, id := range []string{"0-R0", "1-R1", "0-0-R0a", "0-1-R0b", "1-0-R1a", "1-1-R1b"} {
		assert.Contains(t, m, id)
	}
	assert.Len(t, order, 6)
}

func TestBookmarkService_VisitsRootsBeforeChildren(t *testing.T) {
	engine := &orderEngine{Engine: memory.NewEngine(memory.WithSeeds(twoByTwoSeeds()))}

	_, err := NewBookmarkService().Flatten(context.Background(), engine)

	require.NoError(t, err)
	assert.Equal(t, []string{"R0", "R1", "R0a", "R0b", "R1a", "R1b"}, engine.titles())
}

func TestBookmarkService_CarriesStyle(t *testing.T) {
	engine := memory.NewEngine(memory.WithSeeds([]domain.OutlineSeed{
		{Name: "Intro", Style: domain.BookmarkStyle{Color: domain.Color{R: 1}, Flag: domain.FlagBold | domain.FlagItalic}},
	}))

	m, err := NewBookmarkService().Flatten(context.Background(), engine)

	require.NoError(t, err)
	entry := m["0-Intro"]
	assert.Equal(t, "Intro", entry.Name)
	assert.Equal(t, "#ff0000", entry.Style.Color.Hex())
	assert.True(t, entry.Style.Flag.Bold())
	assert.True(t, entry.Style.Flag.Italic())
}

func TestBookmarkService_EmptyTree(t *testing.T) {
	m, err := NewBookmarkService().Flatten(context.Background(), memory.NewEngine())

	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestBookmarkService_ExtendedModeOff(t *testing.T) {
	engine := memory.NewEngine(memory.WithExtendedMode(false), memory.WithSeeds(twoByTwoSeeds()))

	m, err := NewBookmarkService().Flatten(context.Background(), engine)

	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestBookmarkService_FailedReadAborts(t *testing.T) {
	for _, op := range []string{"root", "valid", "next", "child", "haschildren", "title", "color", "flags"} {
		t.Run(op, func(t *testing.T) {
			engine := memory.NewEngine(memory.WithSeeds(twoByTwoSeeds()))
			boom := errors.New("engine gone")
			engine.FailOn(op, boom)

			m, err := NewBookmarkService().Flatten(context.Background(), engine)

			assert.ErrorIs(t, err, boom)
			assert.Nil(t, m)
		})
	}
}

func TestBookmarkService_CollisionLastWins(t *testing.T) {
	// "0" + "-1-x" and "0-1" + "-x" share the id "0-1-x".
	engine := memory.NewEngine(memory.WithSeeds([]domain.OutlineSeed{
		{Name: "1-x", Children: []domain.OutlineSeed{
			{Name: "a"},
			{Name: "x", Style: domain.BookmarkStyle{Flag: domain.FlagBold}},
		}},
	}))

	m, err := NewBookmarkService().Flatten(context.Background(), engine)

	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, "x", m["0-1-x"].Name)
	assert.True(t, m["0-1-x"].Style.Flag.Bold())
}

// orderEngine records titles in the order the flattener reads them.
type orderEngine struct {
	*memory.Engine
	mu   sync.Mutex
	seen []string
}

func (e *orderEngine) BookmarkRoot(ctx context.Context) (driven.BookmarkHandle, error) {
	h, err := e.Engine.BookmarkRoot(ctx)
	if err != nil {
		return nil, err
	}
	return &recordingHandle{BookmarkHandle: h, engine: e}, nil
}

func (e *orderEngine) titles() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.seen...)
}

type recordingHandle struct {
	driven.BookmarkHandle
	engine *orderEngine
}

func (h *recordingHandle) Title(ctx context.Context) (string, error) {
	title, err := h.BookmarkHandle.Title(ctx)
	if err == nil {
		h.engine.mu.Lock()
		h.engine.seen = append(h.engine.seen, title)
		h.engine.mu.Unlock()
	}
	return title, err
}

func (h *recordingHandle) Next(ctx context.Context) (driven.BookmarkHandle, error) {
	next, err := h.BookmarkHandle.Next(ctx)
	if err != nil {
		return nil, err
	}
	return &recordingHandle{BookmarkHandle: next, engine: h.engine}, nil
}

func (h *recordingHandle) FirstChild(ctx context.Context) (driven.BookmarkHandle, error) {
	child, err := h.BookmarkHandle.FirstChild(ctx)
	if err != nil {
		return nil, err
	}
	return &recordingHandle{BookmarkHandle: child, engine: h.engine}, nil
}
