package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/recipebox/internal/platform/database/schema"
)

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{"id", "username", "passwordhash", "role", "createdat"}, schema.UserAccount.Columns())
	assert.Len(t, schema.CoreRecipe.Columns(), 7)
	assert.Equal(t, "ownerid", schema.CoreRecipe.OwnerID)
}
