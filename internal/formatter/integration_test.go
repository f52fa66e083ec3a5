package formatter_test

import (
	"testing"

	"github.com/mcncl/jsontab/internal/analyzer"
	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/formatter"
	"github.com/mcncl/jsontab/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_ParserAnalyzerGeneratorFormatter(t *testing.T) {
	jsonInput := `{
		"user_id": 123,
		"username": "johndoe",
		"is_active": true,
		"profile": {
			"full_name": "John Doe",
			"email": "john.doe@example.com"
		}
	}`

	value, err := analyzer.ParseBytes([]byte(jsonInput), config.NewParseConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, `List of 4
 $ user_id: int 123
 $ username: chr "johndoe"
 $ is_active: logi TRUE
 $ profile: List of 2
  ..$ full_name: chr "John Doe"
  ..$ email: chr "john.doe@example.com"
`, formatter.Describe(value))

	sc := config.NewSerializeConfig()
	sc.AutoUnbox = true
	doc, err := generator.NewGenerator(sc, nil).Generate(value)
	require.NoError(t, err)

	out, err := formatter.NewFormatter(true).Format(doc)
	require.NoError(t, err)
	assert.Equal(t, `{
  "user_id": 123,
  "username": "johndoe",
  "is_active": true,
  "profile": {
    "full_name": "John Doe",
    "email": "john.doe@example.com"
  }
}`, string(out))
}

func TestIntegration_ArrayOfObjects(t *testing.T) {
	jsonInput := `[
		{"id": 1, "name": "Product 1", "price": 19.99},
		{"id": 2, "name": "Product 2", "price": 29}
	]`

	value, err := analyzer.ParseBytes([]byte(jsonInput), config.NewParseConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, `Table: 2 obs. of 3 variables:
 $ id: int [1:2] 1 2
 $ name: chr [1:2] "Product 1" "Product 2"
 $ price: num [1:2] 19.99 29
`, formatter.Describe(value))

	doc, err := generator.NewGenerator(config.NewSerializeConfig(), nil).Generate(value)
	require.NoError(t, err)
	out, err := formatter.NewFormatter(false).Format(doc)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"name":"Product 1","price":19.99},{"id":2,"name":"Product 2","price":29.0}]`, string(out))
}
