//go:build integration

package testdb

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTestDatabaseURL(t *testing.T) {
	testCases := []struct {
		name    string
		primary string
		test    string
		want    string
	}{
		{name: "primary wins", primary: "postgres://a", test: "postgres://b", want: "postgres://a"},
		{name: "falls back", test: "postgres://b", want: "postgres://b"},
		{name: "none", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvDatabaseURL, tc.primary)
			t.Setenv(EnvTestDBURL, tc.test)

			assert.Equal(t, tc.want, GetTestDatabaseURL())
			assert.Equal(t, tc.want != "", IsIntegrationTestEnvironment())
		})
	}
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	db := GetTestDBWithT(t)
	id := uuid.New()

	WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		_, err := tx.Exec(
			`INSERT INTO terms (id, owner_id, headword, senses) VALUES ($1, $2, $3, $4)`,
			id, uuid.New(), "nhà", []string{"house"},
		)
		require.NoError(t, err)
	})

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM terms WHERE id = $1`, id).Scan(&count))
	assert.Zero(t, count)
}
