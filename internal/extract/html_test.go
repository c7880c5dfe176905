package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleText(t *testing.T) {
	htmlDoc := `<html><head><title>Manifest</title>
		<script>var x = "hidden";</script>
		<style>body { color: red; }</style>
	</head><body>
		<h1>Flight Log</h1>
		<p>Jane Doe boarded <b>N12345</b>.</p>
		<noscript>enable js</noscript>
	</body></html>`

	text, err := VisibleText(htmlDoc)
	require.NoError(t, err)

	assert.Contains(t, text, "Flight Log")
	assert.Contains(t, text, "Jane Doe boarded")
	assert.Contains(t, text, "N12345")
	assert.NotContains(t, text, "hidden")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "enable js")
}

func TestVisibleTextEmpty(t *testing.T) {
	text, err := VisibleText("")
	require.NoError(t, err)
	assert.Empty(t, text)
}
