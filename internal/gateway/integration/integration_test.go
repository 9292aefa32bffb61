package integration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractWorkID(t *testing.T) {
	t.Run("plain id field", func(t *testing.T) {
		id, err := ExtractWorkID([]byte(`{"id": "work-42", "submitter_name": "Alice"}`))
		require.NoError(t, err)
		require.Equal(t, "work-42", id)
	})

	t.Run("missing or unusable id", func(t *testing.T) {
		for _, body := range []string{
			`{}`,
			`{"id": ""}`,
			`{"id": 42}`,
			`{"message": "stored"}`,
			`not json`,
			``,
		} {
			_, err := ExtractWorkID([]byte(body))
			require.Error(t, err, body)
		}
	})
}
