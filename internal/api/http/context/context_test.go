package context

import (
	stdctx "context"
	"testing"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestManager_SetAndGetPrincipal(t *testing.T) {
	t.Parallel()

	m := NewManager()
	p := model.Principal{UserID: uuid.New(), Roles: []string{model.RoleUser}, Channel: model.ChannelToken}

	got, ok := m.GetPrincipalFromContext(m.SetPrincipalToContext(stdctx.Background(), p))
	assert.True(t, ok)
	assert.Equal(t, p, got)
}

func TestManager_GetPrincipal_NotFound(t *testing.T) {
	t.Parallel()

	m := NewManager()
	_, ok := m.GetPrincipalFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_GetPrincipal_EmptyUserID(t *testing.T) {
	t.Parallel()

	m := NewManager()
	ctx := m.SetPrincipalToContext(stdctx.Background(), model.Principal{Email: "x@y.z"})

	_, ok := m.GetPrincipalFromContext(ctx)
	assert.False(t, ok)
}
