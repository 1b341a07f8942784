package jsonld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(scripts ...string) string {
	html := "<html><head><title>t</title>"
	for _, s := range scripts {
		html += `<script type="application/ld+json">` + s + `</script>`
	}
	return html + "</head><body><p>body</p></body></html>"
}

func TestExtract_SimpleRecipe(t *testing.T) {
	html := page(`{"@type":"Recipe","recipeIngredient":["flour"],"recipeInstructions":"Mix well"}`)

	fields, ok := Extract(html)
	require.True(t, ok)
	assert.Equal(t, "flour", fields.Ingredients)
	assert.Equal(t, "Mix well", fields.Instructions)
}

func TestExtract_RecipeInsideGraph(t *testing.T) {
	html := page(`{"@graph":[{"@type":"WebPage"},{"@type":"Recipe","recipeIngredient":["sugar"]}]}`)

	fields, ok := Extract(html)
	require.True(t, ok)
	assert.Equal(t, "sugar", fields.Ingredients)
	assert.Empty(t, fields.Instructions)
}

func TestExtract_TopLevelList(t *testing.T) {
	html := page(`[{"@type":"Organization"},{"@type":"Recipe","recipeIngredient":["egg","milk"]}]`)

	fields, ok := Extract(html)
	require.True(t, ok)
	assert.Equal(t, "egg\nmilk", fields.Ingredients)
}

func TestExtract_FirstScriptWins(t *testing.T) {
	html := page(
		`{"@type":"BreadcrumbList"}`,
		`{"@type":"Recipe","recipeIngredient":["first"]}`,
		`{"@type":"Recipe","recipeIngredient":["second"]}`,
	)

	fields, ok := Extract(html)
	require.True(t, ok)
	assert.Equal(t, "first", fields.Ingredients)
}

func TestExtract_MalformedScriptSkipped(t *testing.T) {
	html := page(
		`{"@type": "Recipe", broken`,
		`{"@type":"Recipe","recipeIngredient":["salt"]}`,
	)

	fields, ok := Extract(html)
	require.True(t, ok)
	assert.Equal(t, "salt", fields.Ingredients)
}

func TestExtract_RawNewlinesInsideStrings(t *testing.T) {
	html := page("{\"@type\":\"Recipe\",\"recipeInstructions\":\"Boil\nthen serve\"}")

	fields, ok := Extract(html)
	require.True(t, ok)
	assert.Equal(t, "Boil then serve", fields.Instructions)
}

func TestExtract_TypeList(t *testing.T) {
	html := page(`{"@type":["Recipe","NewsArticle"],"recipeIngredient":["rice"]}`)

	fields, ok := Extract(html)
	require.True(t, ok)
	assert.Equal(t, "rice", fields.Ingredients)
}

func TestExtract_NoRecipe(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no scripts", "<html><body>plain</body></html>"},
		{"other type", page(`{"@type":"Article","headline":"x"}`)},
		{"graph without recipe", page(`{"@graph":[{"@type":"WebSite"}]}`)},
		{"graph not a list", page(`{"@graph":{"@type":"Recipe"}}`)},
		{"scalar", page(`"Recipe"`)},
		{"empty script", page(``)},
		{"wrong script type", `<script type="text/javascript">{"@type":"Recipe"}</script>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Extract(tt.html)
			assert.False(t, ok)
		})
	}
}

func TestFindRecipe_Idempotent(t *testing.T) {
	html := page(`{"@graph":[{"@type":"Recipe","name":"Curry","recipeIngredient":["onion"]}]}`)

	first, ok := FindRecipe(html)
	require.True(t, ok)
	second, ok := FindRecipe(html)
	require.True(t, ok)

	assert.Equal(t, first.Raw(), second.Raw())
	assert.Equal(t, "Curry", first.Raw()["name"])
}
