package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/VitaminP8/graphql-basics/graph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	seed := mustDefaultSeed(t)

	assert.Len(t, seed.Users, 3)
	assert.Len(t, seed.Posts, 3)
	assert.Len(t, seed.Comments, 4)

	require.NotNil(t, seed.Users[0].Age)
	assert.Equal(t, 26, *seed.Users[0].Age)
	assert.Nil(t, seed.Users[1].Age)
	assert.Equal(t, "", seed.Posts[2].Body)
}

func TestNewStorages(t *testing.T) {
	t.Run("Storages are independent between calls", func(t *testing.T) {
		seed := mustDefaultSeed(t)
		users1, _, _ := NewStorages(seed)
		users2, _, _ := NewStorages(seed)

		require.NoError(t, users1.AddUser(testContext(t), &model.User{ID: "4", Name: "Zoe", Email: "zoe@email.com"}))
		assert.Equal(t, 4, users1.Count())
		assert.Equal(t, 3, users2.Count())
	})

	t.Run("Nil seed gives empty storages", func(t *testing.T) {
		users, posts, comments := NewStorages(nil)
		assert.Zero(t, users.Count())
		assert.Zero(t, posts.Count())
		assert.Zero(t, comments.Count())
	})
}

func TestParseSeed_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name: "Duplicate email",
			input: heredoc.Doc(`
				users:
				  - {id: "1", name: A, email: a@email.com}
				  - {id: "2", name: B, email: a@email.com}
			`),
			wantErr: "duplicate email",
		},
		{
			name: "Duplicate user ID",
			input: heredoc.Doc(`
				users:
				  - {id: "1", name: A, email: a@email.com}
				  - {id: "1", name: B, email: b@email.com}
			`),
			wantErr: "duplicate id",
		},
		{
			name: "Post with unknown author",
			input: heredoc.Doc(`
				users:
				  - {id: "1", name: A, email: a@email.com}
				posts:
				  - {id: "10", title: T, body: "", published: true, author: "9"}
			`),
			wantErr: "unknown author",
		},
		{
			name: "Comment with unknown post",
			input: heredoc.Doc(`
				users:
				  - {id: "1", name: A, email: a@email.com}
				comments:
				  - {id: "100", text: Hi, author: "1", post: "10"}
			`),
			wantErr: "unknown post",
		},
		{
			name: "Unknown field",
			input: heredoc.Doc(`
				users:
				  - {id: "1", name: A, email: a@email.com, password: secret}
			`),
			wantErr: "decode seed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSeed(t *testing.T) {
	t.Run("Empty path falls back to embedded seed", func(t *testing.T) {
		seed, err := LoadSeed("")
		require.NoError(t, err)
		assert.Len(t, seed.Users, 3)
	})

	t.Run("Reads seed from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		content := heredoc.Doc(`
			users:
			  - {id: "7", name: Solo, email: solo@email.com}
		`)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		seed, err := LoadSeed(path)
		require.NoError(t, err)
		require.Len(t, seed.Users, 1)
		assert.Equal(t, "Solo", seed.Users[0].Name)
		assert.Empty(t, seed.Posts)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
