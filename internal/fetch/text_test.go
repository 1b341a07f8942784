package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPageText_RemovesNoise(t *testing.T) {
	html := `<html><head><style>.a{}</style><script>var x = 1;</script></head>
	<body>
		<header>Site Header</header>
		<nav>Home | Recipes</nav>
		<main>
			<h1>Miso Soup</h1>
			<ul><li>dashi 500ml</li><li>miso   2 tbsp</li></ul>
			<p>Heat the dashi.<br>Dissolve the miso.</p>
			<iframe src="https://ads.example.com"></iframe>
			<svg><text>icon</text></svg>
		</main>
		<footer>Copyright</footer>
	</body></html>`

	got := CleanPageText(html, 0)
	assert.Equal(t, "Miso Soup\ndashi 500ml\nmiso 2 tbsp\nHeat the dashi.\nDissolve the miso.", got)
}

func TestCleanPageText_Truncates(t *testing.T) {
	html := "<p>" + strings.Repeat("あ", 50) + "</p>"

	got := CleanPageText(html, 10)
	assert.Equal(t, strings.Repeat("あ", 10), got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 0))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "卵牛", Truncate("卵牛乳", 2))
}
