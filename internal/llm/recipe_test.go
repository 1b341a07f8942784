package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/recipe-keeper/internal/guard"
	"github.com/jonathan/recipe-keeper/internal/types"
)

type fakeClient struct {
	answer string
	err    error
	delay  time.Duration
	reqs   []Request
}

func (f *fakeClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	f.reqs = append(f.reqs, req)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.answer, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestRecipeExtractor_NoClient(t *testing.T) {
	e := NewRecipeExtractor(nil, "", nil, nil)

	got, err := e.Extract(context.Background(), SourcePage, "anything")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, types.ErrMissingCredential)
	assert.False(t, e.Enabled())
}

func TestRecipeExtractor_Success(t *testing.T) {
	client := &fakeClient{answer: "```json\n{\"ingredients\":\"  卵 2個\\n牛乳 200ml \",\"instructions\":\"混ぜる\\n\"}\n```"}
	e := NewRecipeExtractor(client, TierLite, nil, nil)

	got, err := e.Extract(context.Background(), SourceDescription, "材料 卵 2個 牛乳 200ml 混ぜる")
	require.NoError(t, err)
	assert.Equal(t, &types.RecipeFields{Ingredients: "卵 2個\n牛乳 200ml", Instructions: "混ぜる"}, got)

	require.Len(t, client.reqs, 1)
	req := client.reqs[0]
	assert.Contains(t, req.System, "Never invent")
	assert.Contains(t, req.Prompt, "cooking video")
	assert.Contains(t, req.Prompt, "牛乳 200ml")
	assert.Equal(t, TierLite, req.Tier)
	assert.NotNil(t, req.Schema)
}

func TestRecipeExtractor_PagePrompt(t *testing.T) {
	client := &fakeClient{answer: `{"ingredients":"flour","instructions":""}`}
	e := NewRecipeExtractor(client, "", nil, nil)

	got, err := e.Extract(context.Background(), SourcePage, "Flour. That's it.")
	require.NoError(t, err)
	assert.Equal(t, "flour", got.Ingredients)
	assert.Empty(t, got.Instructions)
	assert.Contains(t, client.reqs[0].Prompt, "web page")
}

func TestRecipeExtractor_BothEmptyIsNotFound(t *testing.T) {
	client := &fakeClient{answer: `{"ingredients":"  ","instructions":""}`}
	e := NewRecipeExtractor(client, "", nil, nil)

	got, err := e.Extract(context.Background(), SourcePage, "a travel blog")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRecipeExtractor_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{"missing field", `{"ingredients":"flour"}`},
		{"wrong type", `{"ingredients":["flour"],"instructions":"mix"}`},
		{"not json", `Sorry, I can't help with that.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewRecipeExtractor(&fakeClient{answer: tt.answer}, "", nil, nil)

			got, err := e.Extract(context.Background(), SourcePage, "text")
			assert.Nil(t, got)
			assert.ErrorIs(t, err, types.ErrShape)
		})
	}
}

func TestRecipeExtractor_CallFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	e := NewRecipeExtractor(&fakeClient{err: boom}, "", nil, nil)

	got, err := e.Extract(context.Background(), SourcePage, "text")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, boom)
}

func TestRecipeExtractor_EmptyInputSkipsCall(t *testing.T) {
	client := &fakeClient{answer: `{"ingredients":"x","instructions":"y"}`}
	e := NewRecipeExtractor(client, "", nil, nil)

	_, err := e.Extract(context.Background(), SourcePage, "   \n ")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Empty(t, client.reqs)
}

func TestRecipeExtractor_Timeout(t *testing.T) {
	client := &fakeClient{answer: `{"ingredients":"x","instructions":"y"}`, delay: 2 * time.Second}
	g := guard.New(guard.Config{Name: "llm", Timeout: 20 * time.Millisecond}, nil)
	e := NewRecipeExtractor(client, "", g, nil)

	got, err := e.Extract(context.Background(), SourcePage, "text")
	assert.Nil(t, got)
	assert.True(t, guard.IsTimeout(err))
}
