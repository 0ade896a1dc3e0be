package appfs

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS(t *testing.T) {
	for _, name := range []string{
		"assets/templates/email/_base.txt",
		"assets/templates/email/_base.gohtml",
		"assets/templates/email/certificate.txt",
		"assets/templates/email/donation_receipt.gohtml",
		"migrations/00001_create_courses.sql",
	} {
		_, err := fs.Stat(FS, name)
		assert.NoError(t, err, name)
	}

	migrations, err := fs.Glob(FS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Len(t, migrations, 6)
}
