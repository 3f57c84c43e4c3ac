package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"so4tdelete/internal/deletion/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAccountIDs(t *testing.T) {
	t.Run("keeps order and ignores other columns", func(t *testing.T) {
		in := "display_name,account_id,email\nAda,12,ada@example.com\nBob, 7 ,bob@example.com\nCy,300,cy@example.com\n"
		ids, err := ReadAccountIDs(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, []model.AccountID{"12", "7", "300"}, ids)
	})

	t.Run("header only", func(t *testing.T) {
		ids, err := ReadAccountIDs(strings.NewReader("account_id\n"))
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("byte order mark", func(t *testing.T) {
		ids, err := ReadAccountIDs(strings.NewReader("\uFEFFaccount_id\n5\n"))
		require.NoError(t, err)
		assert.Equal(t, []model.AccountID{"5"}, ids)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := ReadAccountIDs(strings.NewReader("user_id\n1\n"))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadAccountIDs(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("malformed row", func(t *testing.T) {
		_, err := ReadAccountIDs(strings.NewReader("name,account_id\nAda,12\nBob,abc\n"))
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, 3, rowErr.Line)
	})

	t.Run("short row", func(t *testing.T) {
		_, err := ReadAccountIDs(strings.NewReader("name,account_id\nAda\n"))
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, 2, rowErr.Line)
	})
}

func TestReadAccountIDsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte("account_id\n1\n2\n"), 0o600))

	ids, err := ReadAccountIDsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []model.AccountID{"1", "2"}, ids)

	_, err = ReadAccountIDsFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
